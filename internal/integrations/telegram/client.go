package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// BotAPI часть tgbotapi.BotAPI, нужная клиенту
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client отправляет уведомления менеджерам площадки
type Client struct {
	api     BotAPI
	chatIDs []int64
	limiter *rate.Limiter
}

// NewClient подключается к Bot API по токену.
// ratePerSecond ограничивает частоту отправки (лимит Telegram около 30 сообщений в секунду).
func NewClient(token string, chatIDs []int64, ratePerSecond float64) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%w: create bot api: %v", ErrInternal, err)
	}
	return NewClientWithAPI(api, chatIDs, rate.NewLimiter(rate.Limit(ratePerSecond), 1)), nil
}

// NewClientWithAPI создает клиента поверх готового BotAPI
func NewClientWithAPI(api BotAPI, chatIDs []int64, limiter *rate.Limiter) *Client {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Client{
		api:     api,
		chatIDs: chatIDs,
		limiter: limiter,
	}
}

// Send отправляет текст во все настроенные чаты.
// Ошибка одного чата не прерывает отправку в остальные.
func (c *Client) Send(ctx context.Context, text string) error {
	if len(c.chatIDs) == 0 {
		return ErrNoRecipients
	}

	var errs []error
	for _, chatID := range c.chatIDs {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %w", ErrInternal, err)
		}

		msg := tgbotapi.NewMessage(chatID, text)
		msg.DisableWebPagePreview = true
		if _, err := c.api.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("%w: chat %d: %w", ErrSendFailed, chatID, err))
		}
	}

	return errors.Join(errs...)
}
