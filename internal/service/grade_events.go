package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// GradeEvent announces a committed evaluation to interested consumers
// (notification fan-out, gradebook sync).
type GradeEvent struct {
	EventID       string    `json:"event_id"`
	SubjectType   string    `json:"subject_type"`
	SubjectID     uint      `json:"subject_id"`
	DeliverableID uint      `json:"deliverable_id"`
	RaterRole     string    `json:"rater_role"`
	RaterID       uint      `json:"rater_id"`
	Grade         float64   `json:"evaluation_grade"`
	SentAt        time.Time `json:"sent_at"`
}

// GradeEventPublisher publishes grade events after a successful submit.
type GradeEventPublisher interface {
	PublishGraded(ctx context.Context, event GradeEvent) error
}

type natsGradeEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSGradeEventPublisher publishes grade events to a NATS subject. The
// connection may be nil, in which case publishing is a no-op.
func NewNATSGradeEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) GradeEventPublisher {
	return &natsGradeEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "grade_event_publisher").Logger(),
	}
}

func (p *natsGradeEventPublisher) PublishGraded(_ context.Context, event GradeEvent) error {
	if p.conn == nil || p.subject == "" {
		return nil
	}

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", p.subject).Msg("failed to publish grade event")
		return err
	}

	return nil
}
