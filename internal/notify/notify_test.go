package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"sosmed/internal/apperror"
	"sosmed/internal/logger"
	"sosmed/internal/notify"
	"sosmed/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(queue string, body []byte, persistent bool) error {
	return m.Called(queue, body, persistent).Error(0)
}

func TestQueueNotifier_SendWelcome(t *testing.T) {
	publisher := new(MockPublisher)
	var published []byte
	publisher.On("Publish", notify.WelcomeQueue, mock.Anything, false).
		Run(func(args mock.Arguments) { published = args.Get(1).([]byte) }).
		Return(nil).Once()

	err := notify.NewQueueNotifier(publisher).SendWelcome(context.Background(), "alice@example.com", "Gen3rated!")
	require.NoError(t, err)

	var msg notify.WelcomeMessage
	require.NoError(t, json.Unmarshal(published, &msg))
	assert.Equal(t, "alice@example.com", msg.Email)
	assert.Equal(t, "Gen3rated!", msg.GeneratedPassword)
	assert.False(t, msg.SentAt.IsZero())
	publisher.AssertExpectations(t)
}

func TestQueueNotifier_SendWelcomeWithoutPasswordIsPersistent(t *testing.T) {
	publisher := new(MockPublisher)
	var published []byte
	publisher.On("Publish", notify.WelcomeQueue, mock.Anything, true).
		Run(func(args mock.Arguments) { published = args.Get(1).([]byte) }).
		Return(nil).Once()

	err := notify.NewQueueNotifier(publisher).SendWelcome(context.Background(), "kim@example.com", "")
	require.NoError(t, err)

	assert.NotContains(t, string(published), "generated_password")
	publisher.AssertExpectations(t)
}

func TestQueueNotifier_BrokerFailure(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("Publish", notify.WelcomeQueue, mock.Anything, true).Return(errors.New("channel closed")).Once()

	err := notify.NewQueueNotifier(publisher).SendWelcome(context.Background(), "bob@example.com", "")

	assert.Equal(t, apperror.KindDependencyUnavailable, apperror.KindOf(err))
}

func TestHandleWelcome(t *testing.T) {
	assert.NoError(t, notify.HandleWelcome([]byte(`{"email":"carol@example.com"}`)))
	assert.ErrorIs(t, notify.HandleWelcome([]byte(`{not json`)), rabbitmq.ErrDiscard)
	assert.ErrorIs(t, notify.HandleWelcome([]byte(`{}`)), rabbitmq.ErrDiscard)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, notify.LogNotifier{}.SendWelcome(context.Background(), "dave@example.com", ""))
}
