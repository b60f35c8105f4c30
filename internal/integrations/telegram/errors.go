package telegram

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("telegram client: internal error")

	// ErrSendFailed возвращается, когда Bot API не принял сообщение
	ErrSendFailed = errors.New("telegram client: send failed")

	// ErrNoRecipients возвращается, когда не задан ни один чат
	ErrNoRecipients = errors.New("telegram client: no chat ids configured")
)
