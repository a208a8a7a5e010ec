package visitor

import (
	"context"
	"sync"

	"kneexEngine/domain"
	"kneexEngine/pkg/logger"

	"github.com/google/uuid"
)

// LocalStore is the device-local persistence for the durable visitor id.
type LocalStore interface {
	VisitorID() (string, error)
	SaveVisitorID(id string) error
}

// VisitorRepository contract interface
type VisitorRepository interface {
	Upsert(ctx context.Context, visitor *domain.Visitor) error
}

// Dispatcher runs a remote call best-effort in the background.
type Dispatcher interface {
	Go(operation string, fn func(ctx context.Context) error)
}

type Service struct {
	local       LocalStore
	visitorRepo VisitorRepository
	queue       Dispatcher
	descriptor  string

	mu sync.Mutex
	id string
}

func NewService(local LocalStore, visitorRepo VisitorRepository, queue Dispatcher, deviceDescriptor string) *Service {
	return &Service{
		local:       local,
		visitorRepo: visitorRepo,
		queue:       queue,
		descriptor:  deviceDescriptor,
	}
}

// GetOrCreateVisitorID returns the device's visitor id, generating and
// persisting one on first call. Repeated calls always return the same id.
// A broken local store degrades to a session-only id; analytics must never
// block the caller's primary action.
func (s *Service) GetOrCreateVisitorID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != "" {
		return s.id
	}

	persisted, err := s.local.VisitorID()
	if err != nil {
		logger.Warn("Visitor id store unreadable, using session-only id", err)
		s.id = uuid.NewString()
		s.upsertLocked(nil)
		return s.id
	}

	if persisted != "" {
		s.id = persisted
		return s.id
	}

	s.id = uuid.NewString()
	if err := s.local.SaveVisitorID(s.id); err != nil {
		logger.Warn("Failed to persist visitor id, using session-only id", err)
	}

	// first creation also announces the visitor remotely
	s.upsertLocked(nil)

	return s.id
}

// OnAuthStateChange links the visitor to a newly present authenticated
// identity with a best-effort upsert. Sign-out changes nothing: the
// linkage, like the visitor row itself, is never deleted from here.
func (s *Service) OnAuthStateChange(identity *domain.Identity) {
	if identity == nil {
		return
	}

	// the linkage needs an id to link
	s.GetOrCreateVisitorID()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertLocked(&identity.UserID)
}

func (s *Service) upsertLocked(userID *string) {
	record := &domain.Visitor{
		ID:               s.id,
		UserID:           userID,
		DeviceDescriptor: s.descriptor,
	}

	s.queue.Go("visitors.upsert", func(ctx context.Context) error {
		return s.visitorRepo.Upsert(ctx, record)
	})
}
