package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeAPI struct {
	sent   []tgbotapi.MessageConfig
	failOn map[int64]bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	if f.failOn[msg.ChatID] {
		return tgbotapi.Message{}, errors.New("chat not found")
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func TestClient_SendToAllChats(t *testing.T) {
	api := &fakeAPI{}
	client := NewClientWithAPI(api, []int64{100, 200}, nil)

	require.NoError(t, client.Send(context.Background(), "new booking"))

	require.Len(t, api.sent, 2)
	assert.Equal(t, int64(100), api.sent[0].ChatID)
	assert.Equal(t, int64(200), api.sent[1].ChatID)
	assert.Equal(t, "new booking", api.sent[1].Text)
}

func TestClient_PartialFailure(t *testing.T) {
	api := &fakeAPI{failOn: map[int64]bool{100: true}}
	client := NewClientWithAPI(api, []int64{100, 200}, nil)

	err := client.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrSendFailed)
	require.Len(t, api.sent, 1)
	assert.Equal(t, int64(200), api.sent[0].ChatID)
}

func TestClient_NoRecipients(t *testing.T) {
	client := NewClientWithAPI(&fakeAPI{}, nil, nil)
	assert.ErrorIs(t, client.Send(context.Background(), "x"), ErrNoRecipients)
}

func TestClient_LimiterRespectsContext(t *testing.T) {
	api := &fakeAPI{}
	// одно сообщение в час: второй чат ждать не дождётся
	client := NewClientWithAPI(api, []int64{1, 2}, rate.NewLimiter(rate.Every(time.Hour), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Send(ctx, "x")
	assert.ErrorIs(t, err, ErrInternal)
	assert.Len(t, api.sent, 1)
}
