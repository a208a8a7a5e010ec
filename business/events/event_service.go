package events

import (
	"context"
	"time"

	"kneexEngine/domain"
	"kneexEngine/pkg/metrics"

	"gorm.io/datatypes"
)

// EventRepository contract interface
type EventRepository interface {
	Create(ctx context.Context, event *domain.InteractionEvent) error
}

// VisitorIdentity resolves the id the event row gets tagged with.
type VisitorIdentity interface {
	GetOrCreateVisitorID() string
}

type Dispatcher interface {
	Go(operation string, fn func(ctx context.Context) error)
}

type RecordInput struct {
	ProductID   *uint64
	SearchQuery *string
	Metadata    map[string]any
}

type Service struct {
	eventRepo EventRepository
	visitors  VisitorIdentity
	queue     Dispatcher
	now       func() time.Time
}

func NewService(eventRepo EventRepository, visitors VisitorIdentity, queue Dispatcher) *Service {
	return &Service{
		eventRepo: eventRepo,
		visitors:  visitors,
		queue:     queue,
		now:       time.Now,
	}
}

// Record appends exactly one event row remotely. The caller never waits on
// the append and never sees its outcome. No de-duplication happens here:
// the same interaction reported twice is two rows.
func (s *Service) Record(eventType string, input RecordInput) {
	visitorID := s.visitors.GetOrCreateVisitorID()

	event := &domain.InteractionEvent{
		VisitorID:   visitorID,
		EventType:   eventType,
		ProductID:   input.ProductID,
		SearchQuery: input.SearchQuery,
		CreatedAt:   s.now().UTC(),
	}
	if len(input.Metadata) > 0 {
		event.Metadata = datatypes.JSONMap(input.Metadata)
	}

	metrics.EventsRecorded.WithLabelValues(eventType).Inc()

	s.queue.Go("events.insert", func(ctx context.Context) error {
		return s.eventRepo.Create(ctx, event)
	})
}
