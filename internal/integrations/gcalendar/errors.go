package gcalendar

import "errors"

var (
	// ErrCredentials возвращается, когда не удалось прочитать ключ сервисного аккаунта
	ErrCredentials = errors.New("gcalendar client: invalid credentials")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("gcalendar client: internal error")

	// ErrRequestFailed возвращается, когда Calendar API ответил ошибкой
	ErrRequestFailed = errors.New("gcalendar client: request failed")
)
