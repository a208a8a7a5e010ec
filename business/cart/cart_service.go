package cart

import (
	"context"
	"errors"
	"sync"

	"kneexEngine/domain"
	"kneexEngine/pkg/logger"
	"kneexEngine/pkg/metrics"
)

// CartRepository is the remote-synchronized realm, keyed per authenticated
// user.
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	FindByUserAndProduct(ctx context.Context, userID string, productID uint64) (domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, itemID uint64, quantity int) error
	UpdateQuantityByUserAndProduct(ctx context.Context, userID string, productID uint64, quantity int) error
	DeleteByUserAndProduct(ctx context.Context, userID string, productID uint64) error
	DeleteAllByUser(ctx context.Context, userID string) error
}

// LocalStore is the device-local realm, authoritative for guests.
type LocalStore interface {
	GuestCart() ([]domain.CartLine, error)
	SaveGuestCart(lines []domain.CartLine) error
	ClearGuestCart() error
}

// AuthState answers "who owns this cart right now".
type AuthState interface {
	Current() *domain.Identity
}

type Dispatcher interface {
	Go(operation string, fn func(ctx context.Context) error)
}

// Service owns the authoritative in-memory cart. Every mutation lands in
// memory synchronously so the rendering layer sees it immediately; the
// matching realm (remote for authenticated users, device-local for guests)
// is mirrored best-effort afterwards, with no rollback on failure. A later
// full rehydration is the only correction path.
type Service struct {
	cartRepo CartRepository
	local    LocalStore
	auth     AuthState
	queue    Dispatcher

	mu    sync.Mutex
	lines map[uint64]domain.CartLine
	// order keeps insertion order so the drawer renders stably
	order []uint64
}

func NewService(cartRepo CartRepository, local LocalStore, auth AuthState, queue Dispatcher) *Service {
	s := &Service{
		cartRepo: cartRepo,
		local:    local,
		auth:     auth,
		queue:    queue,
		lines:    make(map[uint64]domain.CartLine),
	}

	// guests pick up where the device left off
	if lines, err := local.GuestCart(); err != nil {
		logger.Warn("Failed to load guest cart snapshot", err)
	} else {
		s.replaceLocked(lines)
	}

	return s
}

// AddToCart increments the line for the product, creating it with quantity
// one and a display-field snapshot on first add.
func (s *Service) AddToCart(product domain.CartLine) {
	s.mu.Lock()

	line, exists := s.lines[product.ProductID]
	if exists {
		line.Quantity++
	} else {
		line = product
		line.Quantity = 1
		s.order = append(s.order, product.ProductID)
	}
	s.lines[product.ProductID] = line

	quantity := line.Quantity
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	metrics.CartMutations.WithLabelValues("add").Inc()

	identity := s.auth.Current()
	if identity == nil {
		s.persistGuest(snapshot)
		return
	}

	userID := identity.UserID
	productID := product.ProductID
	s.queue.Go("cart_items.add", func(ctx context.Context) error {
		item, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
		if errors.Is(err, domain.ErrCartItemNotFound) {
			return s.cartRepo.Create(ctx, &domain.CartItem{
				UserID:    userID,
				ProductID: productID,
				Quantity:  1,
			})
		}
		if err != nil {
			return err
		}

		// now-current in-memory quantity, not a blind increment
		return s.cartRepo.UpdateQuantity(ctx, item.ID, quantity)
	})
}

func (s *Service) RemoveFromCart(productID uint64) {
	s.mu.Lock()
	if _, exists := s.lines[productID]; !exists {
		s.mu.Unlock()
		return
	}

	delete(s.lines, productID)
	s.dropOrderLocked(productID)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	metrics.CartMutations.WithLabelValues("remove").Inc()

	identity := s.auth.Current()
	if identity == nil {
		s.persistGuest(snapshot)
		return
	}

	userID := identity.UserID
	s.queue.Go("cart_items.delete", func(ctx context.Context) error {
		return s.cartRepo.DeleteByUserAndProduct(ctx, userID, productID)
	})
}

// UpdateQuantity sets the line's quantity; anything below one removes the
// line entirely.
func (s *Service) UpdateQuantity(productID uint64, quantity int) {
	if quantity < 1 {
		s.RemoveFromCart(productID)
		return
	}

	s.mu.Lock()
	line, exists := s.lines[productID]
	if !exists {
		s.mu.Unlock()
		return
	}

	line.Quantity = quantity
	s.lines[productID] = line
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	metrics.CartMutations.WithLabelValues("update").Inc()

	identity := s.auth.Current()
	if identity == nil {
		s.persistGuest(snapshot)
		return
	}

	userID := identity.UserID
	s.queue.Go("cart_items.update", func(ctx context.Context) error {
		return s.cartRepo.UpdateQuantityByUserAndProduct(ctx, userID, productID, quantity)
	})
}

// ClearCart empties the cart, as on order completion or an explicit clear.
func (s *Service) ClearCart() {
	s.mu.Lock()
	s.lines = make(map[uint64]domain.CartLine)
	s.order = nil
	s.mu.Unlock()

	metrics.CartMutations.WithLabelValues("clear").Inc()

	identity := s.auth.Current()
	if identity == nil {
		s.queue.Go("local.cart_clear", func(ctx context.Context) error {
			return s.local.ClearGuestCart()
		})
		return
	}

	userID := identity.UserID
	s.queue.Go("cart_items.clear", func(ctx context.Context) error {
		return s.cartRepo.DeleteAllByUser(ctx, userID)
	})
}

// Lines returns the cart in insertion order.
func (s *Service) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Count is the sum of quantities over all lines.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}

	return count
}

// Total is the sum of price times quantity over all lines, recomputed on
// every call, never cached.
func (s *Service) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, line := range s.lines {
		total += line.Price * float64(line.Quantity)
	}

	return total
}

// OnAuthStateChange reacts to identity transitions.
//
// Sign-in: the in-memory cart is discarded and rebuilt from the account's
// remote cart. The guest cart is superseded, not merged; its device-local
// snapshot stays on disk untouched.
//
// Sign-out: nothing happens. The in-memory cart stays as-is until the next
// engine start loads the guest snapshot again.
func (s *Service) OnAuthStateChange(identity *domain.Identity) {
	if identity == nil {
		return
	}

	userID := identity.UserID
	s.queue.Go("cart_items.hydrate", func(ctx context.Context) error {
		lines, err := s.cartRepo.FindByUser(ctx, userID)
		if err != nil {
			// keep whatever the UI is already showing
			return err
		}

		s.mu.Lock()
		s.replaceLocked(lines)
		s.mu.Unlock()

		return nil
	})
}

func (s *Service) persistGuest(snapshot []domain.CartLine) {
	s.queue.Go("local.cart_snapshot", func(ctx context.Context) error {
		return s.local.SaveGuestCart(snapshot)
	})
}

func (s *Service) dropOrderLocked(productID uint64) {
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Service) snapshotLocked() []domain.CartLine {
	snapshot := make([]domain.CartLine, 0, len(s.order))
	for _, productID := range s.order {
		snapshot = append(snapshot, s.lines[productID])
	}

	return snapshot
}

func (s *Service) replaceLocked(lines []domain.CartLine) {
	s.lines = make(map[uint64]domain.CartLine, len(lines))
	s.order = make([]uint64, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		s.lines[line.ProductID] = line
		s.order = append(s.order, line.ProductID)
	}
}
