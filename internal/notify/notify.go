// Package notify delivers user notifications through the message broker.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sosmed/internal/apperror"
	"sosmed/internal/logger"
	"sosmed/pkg/rabbitmq"
)

// WelcomeQueue carries welcome events for newly registered users.
const WelcomeQueue = "welcome_queue"

// WelcomeMessage is the payload published on WelcomeQueue.
type WelcomeMessage struct {
	Email string `json:"email"`
	// GeneratedPassword is set only when the password was generated for the user.
	GeneratedPassword string    `json:"generated_password,omitempty"`
	SentAt            time.Time `json:"sent_at"`
}

// Publisher is the part of the broker client the notifier needs.
type Publisher interface {
	Publish(queue string, body []byte, persistent bool) error
}

// QueueNotifier publishes notifications to the broker.
type QueueNotifier struct {
	publisher Publisher
	now       func() time.Time
}

// NewQueueNotifier creates a QueueNotifier over publisher.
func NewQueueNotifier(publisher Publisher) *QueueNotifier {
	return &QueueNotifier{
		publisher: publisher,
		now:       time.Now,
	}
}

// SendWelcome publishes a welcome event for email. A message carrying a
// generated password is published transient so the broker never writes it
// to disk.
func (n *QueueNotifier) SendWelcome(ctx context.Context, email, generatedPassword string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(WelcomeMessage{
		Email:             email,
		GeneratedPassword: generatedPassword,
		SentAt:            n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal welcome message: %w", err)
	}
	if err := n.publisher.Publish(WelcomeQueue, body, generatedPassword == ""); err != nil {
		return apperror.Wrap(apperror.KindDependencyUnavailable, err, "Unable to send welcome notification")
	}
	return nil
}

// LogNotifier only records that a notification would have been sent. It is
// used when no broker is configured.
type LogNotifier struct{}

func (LogNotifier) SendWelcome(ctx context.Context, email, generatedPassword string) error {
	logger.Info.Printf("welcome notification for %s (generated password: %t)", email, generatedPassword != "")
	return nil
}

// HandleWelcome consumes one welcome event. Delivery to the mailbox happens
// outside this service; the handler validates the payload and logs it.
func HandleWelcome(body []byte) error {
	var msg WelcomeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("invalid welcome message: %v: %w", err, rabbitmq.ErrDiscard)
	}
	if msg.Email == "" {
		return fmt.Errorf("welcome message without recipient: %w", rabbitmq.ErrDiscard)
	}
	logger.Info.Printf("delivering welcome message to %s", msg.Email)
	return nil
}
