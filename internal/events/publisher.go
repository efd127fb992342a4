package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"forms-service/internal/models"
)

// SubjectPrefix roots every form transition subject.
const SubjectPrefix = "forms"

// FormEvent is the wire payload published on form transitions.
type FormEvent struct {
	EventType    string    `json:"eventType"`
	TenantID     string    `json:"tenantId"`
	FormID       string    `json:"formId"`
	FormNumber   string    `json:"formNumber"`
	FormableType string    `json:"formableType"`
	FormableID   string    `json:"formableId"`
	ActorID      string    `json:"actorId,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Publisher publishes form transition events to NATS. A nil Publisher is
// safe to call; transitions never fail because of event delivery.
type Publisher struct {
	nc     *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS and returns a publisher
func NewPublisher(url string, logger *logrus.Logger) (*Publisher, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.InfoLevel)
	}

	nc, err := nats.Connect(url,
		nats.Name("forms-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{
		nc:     nc,
		logger: logger.WithField("component", "form-events"),
	}, nil
}

// Close drains the NATS connection
func (p *Publisher) Close() {
	if p != nil && p.nc != nil {
		_ = p.nc.Drain()
	}
}

// PublishFormEvent publishes a transition event asynchronously. Failures are
// logged, never returned: the transition already committed.
func (p *Publisher) PublishFormEvent(ctx context.Context, eventType string, form *models.Form, actorID string) {
	if p == nil || p.nc == nil {
		return
	}

	event := FormEvent{
		EventType:    eventType,
		TenantID:     form.TenantID,
		FormID:       form.ID.String(),
		FormNumber:   form.Number,
		FormableType: form.FormableType,
		FormableID:   form.FormableID.String(),
		ActorID:      actorID,
		OccurredAt:   time.Now().UTC(),
	}

	subject := subjectFor(form.FormableType, eventType)

	go func() {
		data, err := json.Marshal(event)
		if err != nil {
			p.logger.WithError(err).Error("Failed to marshal form event")
			return
		}

		if err := p.nc.Publish(subject, data); err != nil {
			p.logger.WithFields(logrus.Fields{
				"subject":  subject,
				"formId":   event.FormID,
				"tenantId": event.TenantID,
			}).WithError(err).Error("Failed to publish form event")
			return
		}

		p.logger.WithFields(logrus.Fields{
			"subject":  subject,
			"formId":   event.FormID,
			"tenantId": event.TenantID,
		}).Info("Form event published")
	}()
}

// subjectFor builds e.g. "forms.stock_correction.cancellation_approved".
func subjectFor(formableType, eventType string) string {
	kind := snakeCase(strings.TrimSpace(formableType))
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, kind, eventType)
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
