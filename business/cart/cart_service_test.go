package cart

import (
	"context"
	"errors"
	"testing"

	"kneexEngine/domain"
)

type fakeCartRepo struct {
	remote map[string]map[uint64]domain.CartItem
	nextID uint64
	err    error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{remote: make(map[string]map[uint64]domain.CartItem)}
}

func (f *fakeCartRepo) seed(userID string, lines ...domain.CartLine) {
	for _, line := range lines {
		f.nextID++
		if f.remote[userID] == nil {
			f.remote[userID] = make(map[uint64]domain.CartItem)
		}
		f.remote[userID][line.ProductID] = domain.CartItem{
			ID:        f.nextID,
			UserID:    userID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}
}

func (f *fakeCartRepo) FindByUser(_ context.Context, userID string) ([]domain.CartLine, error) {
	if f.err != nil {
		return nil, f.err
	}
	lines := make([]domain.CartLine, 0, len(f.remote[userID]))
	for _, item := range f.remote[userID] {
		lines = append(lines, domain.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines, nil
}

func (f *fakeCartRepo) FindByUserAndProduct(_ context.Context, userID string, productID uint64) (domain.CartItem, error) {
	if f.err != nil {
		return domain.CartItem{}, f.err
	}
	item, ok := f.remote[userID][productID]
	if !ok {
		return domain.CartItem{}, domain.ErrCartItemNotFound
	}
	return item, nil
}

func (f *fakeCartRepo) Create(_ context.Context, item *domain.CartItem) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	item.ID = f.nextID
	if f.remote[item.UserID] == nil {
		f.remote[item.UserID] = make(map[uint64]domain.CartItem)
	}
	f.remote[item.UserID][item.ProductID] = *item
	return nil
}

func (f *fakeCartRepo) UpdateQuantity(_ context.Context, itemID uint64, quantity int) error {
	if f.err != nil {
		return f.err
	}
	for userID, items := range f.remote {
		for productID, item := range items {
			if item.ID == itemID {
				item.Quantity = quantity
				f.remote[userID][productID] = item
				return nil
			}
		}
	}
	return domain.ErrCartItemNotFound
}

func (f *fakeCartRepo) UpdateQuantityByUserAndProduct(_ context.Context, userID string, productID uint64, quantity int) error {
	if f.err != nil {
		return f.err
	}
	item, ok := f.remote[userID][productID]
	if !ok {
		return domain.ErrCartItemNotFound
	}
	item.Quantity = quantity
	f.remote[userID][productID] = item
	return nil
}

func (f *fakeCartRepo) DeleteByUserAndProduct(_ context.Context, userID string, productID uint64) error {
	if f.err != nil {
		return f.err
	}
	delete(f.remote[userID], productID)
	return nil
}

func (f *fakeCartRepo) DeleteAllByUser(_ context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.remote, userID)
	return nil
}

type fakeLocalStore struct {
	snapshot []domain.CartLine
	loadErr  error
	cleared  bool
}

func (f *fakeLocalStore) GuestCart() ([]domain.CartLine, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snapshot, nil
}

func (f *fakeLocalStore) SaveGuestCart(lines []domain.CartLine) error {
	f.snapshot = lines
	f.cleared = false
	return nil
}

func (f *fakeLocalStore) ClearGuestCart() error {
	f.snapshot = nil
	f.cleared = true
	return nil
}

type fakeAuth struct {
	identity *domain.Identity
}

func (f *fakeAuth) Current() *domain.Identity { return f.identity }

type inlineQueue struct{}

func (inlineQueue) Go(_ string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}

func line(productID uint64, name string, price float64) domain.CartLine {
	return domain.CartLine{ProductID: productID, ProductName: name, Price: price, Quantity: 1}
}

func TestAddToCart_RepeatedAddIncrements(t *testing.T) {
	svc := NewService(newFakeCartRepo(), &fakeLocalStore{}, &fakeAuth{}, inlineQueue{})

	svc.AddToCart(line(1, "honey", 4.5))
	svc.AddToCart(line(1, "honey", 4.5))

	lines := svc.Lines()
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", lines[0].Quantity)
	}
	if svc.Count() != 2 {
		t.Errorf("count = %d, want 2", svc.Count())
	}
}

func TestAddToCart_KeepsInsertionOrder(t *testing.T) {
	svc := NewService(newFakeCartRepo(), &fakeLocalStore{}, &fakeAuth{}, inlineQueue{})

	svc.AddToCart(line(3, "bread", 2))
	svc.AddToCart(line(1, "honey", 4.5))
	svc.AddToCart(line(3, "bread", 2))

	lines := svc.Lines()
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].ProductID != 3 || lines[1].ProductID != 1 {
		t.Errorf("order = [%d %d], want [3 1]", lines[0].ProductID, lines[1].ProductID)
	}
}

func TestAddToCart_GuestPersistsSnapshot(t *testing.T) {
	local := &fakeLocalStore{}
	svc := NewService(newFakeCartRepo(), local, &fakeAuth{}, inlineQueue{})

	svc.AddToCart(line(1, "honey", 4.5))

	if len(local.snapshot) != 1 || local.snapshot[0].ProductID != 1 {
		t.Fatalf("snapshot = %v, want the added line", local.snapshot)
	}
}

func TestAddToCart_AuthenticatedInsertsThenUpdates(t *testing.T) {
	repo := newFakeCartRepo()
	svc := NewService(repo, &fakeLocalStore{}, &fakeAuth{identity: &domain.Identity{UserID: "user-1"}}, inlineQueue{})

	svc.AddToCart(line(1, "honey", 4.5))

	item, ok := repo.remote["user-1"][1]
	if !ok {
		t.Fatal("first add did not create a remote row")
	}
	if item.Quantity != 1 {
		t.Fatalf("remote quantity = %d after first add, want 1", item.Quantity)
	}

	svc.AddToCart(line(1, "honey", 4.5))

	item = repo.remote["user-1"][1]
	if item.Quantity != 2 {
		t.Errorf("remote quantity = %d after second add, want 2", item.Quantity)
	}
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	local := &fakeLocalStore{}
	svc := NewService(newFakeCartRepo(), local, &fakeAuth{}, inlineQueue{})

	svc.AddToCart(line(1, "honey", 4.5))
	svc.UpdateQuantity(1, 0)

	if len(svc.Lines()) != 0 {
		t.Fatalf("lines = %v, want empty", svc.Lines())
	}
	if len(local.snapshot) != 0 {
		t.Errorf("snapshot = %v, want empty", local.snapshot)
	}
}

func TestUpdateQuantity_MissingLineIsNoOp(t *testing.T) {
	svc := NewService(newFakeCartRepo(), &fakeLocalStore{}, &fakeAuth{}, inlineQueue{})

	svc.UpdateQuantity(99, 3)

	if len(svc.Lines()) != 0 {
		t.Errorf("lines = %v, want empty", svc.Lines())
	}
}

func TestUpdateQuantity_AuthenticatedMirrorsRemote(t *testing.T) {
	repo := newFakeCartRepo()
	repo.seed("user-1", domain.CartLine{ProductID: 1, Quantity: 1})
	auth := &fakeAuth{identity: &domain.Identity{UserID: "user-1"}}
	svc := NewService(repo, &fakeLocalStore{}, auth, inlineQueue{})

	svc.OnAuthStateChange(auth.identity)
	svc.UpdateQuantity(1, 5)

	if got := repo.remote["user-1"][1].Quantity; got != 5 {
		t.Errorf("remote quantity = %d, want 5", got)
	}
	if svc.Count() != 5 {
		t.Errorf("count = %d, want 5", svc.Count())
	}
}

func TestTotal_DerivedFromLines(t *testing.T) {
	svc := NewService(newFakeCartRepo(), &fakeLocalStore{}, &fakeAuth{}, inlineQueue{})

	svc.AddToCart(line(1, "honey", 4.5))
	svc.AddToCart(line(1, "honey", 4.5))
	svc.AddToCart(line(2, "bread", 2))

	want := 4.5*2 + 2
	if got := svc.Total(); got != want {
		t.Errorf("total = %v, want %v", got, want)
	}
	// repeated reads stay stable
	if got := svc.Total(); got != want {
		t.Errorf("second total = %v, want %v", got, want)
	}
}

func TestClearCart_Guest(t *testing.T) {
	local := &fakeLocalStore{}
	svc := NewService(newFakeCartRepo(), local, &fakeAuth{}, inlineQueue{})

	svc.AddToCart(line(1, "honey", 4.5))
	svc.ClearCart()

	if len(svc.Lines()) != 0 {
		t.Fatalf("lines = %v, want empty", svc.Lines())
	}
	if !local.cleared {
		t.Error("guest snapshot not cleared")
	}
}

func TestClearCart_Authenticated(t *testing.T) {
	repo := newFakeCartRepo()
	repo.seed("user-1", domain.CartLine{ProductID: 1, Quantity: 2})
	auth := &fakeAuth{identity: &domain.Identity{UserID: "user-1"}}
	svc := NewService(repo, &fakeLocalStore{}, auth, inlineQueue{})

	svc.ClearCart()

	if len(repo.remote["user-1"]) != 0 {
		t.Errorf("remote cart = %v, want empty", repo.remote["user-1"])
	}
}

func TestNewService_LoadsGuestSnapshot(t *testing.T) {
	local := &fakeLocalStore{snapshot: []domain.CartLine{
		{ProductID: 1, ProductName: "honey", Price: 4.5, Quantity: 2},
	}}
	svc := NewService(newFakeCartRepo(), local, &fakeAuth{}, inlineQueue{})

	if svc.Count() != 2 {
		t.Errorf("count = %d, want 2 from the snapshot", svc.Count())
	}
}

func TestNewService_SnapshotLoadFailureStartsEmpty(t *testing.T) {
	local := &fakeLocalStore{loadErr: errors.New("corrupt")}
	svc := NewService(newFakeCartRepo(), local, &fakeAuth{}, inlineQueue{})

	if svc.Count() != 0 {
		t.Errorf("count = %d, want 0", svc.Count())
	}
}

func TestOnAuthStateChange_SignInSupersedesGuestCart(t *testing.T) {
	repo := newFakeCartRepo()
	repo.seed("user-1", domain.CartLine{ProductID: 2, Quantity: 1})

	local := &fakeLocalStore{snapshot: []domain.CartLine{
		{ProductID: 1, ProductName: "honey", Quantity: 2},
	}}
	auth := &fakeAuth{}
	svc := NewService(repo, local, auth, inlineQueue{})

	auth.identity = &domain.Identity{UserID: "user-1"}
	svc.OnAuthStateChange(auth.identity)

	lines := svc.Lines()
	if len(lines) != 1 || lines[0].ProductID != 2 {
		t.Fatalf("lines = %v, want only the account's line (product 2)", lines)
	}
	// the guest snapshot stays on disk untouched
	if len(local.snapshot) != 1 || local.snapshot[0].ProductID != 1 {
		t.Errorf("guest snapshot = %v, want untouched", local.snapshot)
	}
}

func TestOnAuthStateChange_SignOutLeavesCart(t *testing.T) {
	repo := newFakeCartRepo()
	repo.seed("user-1", domain.CartLine{ProductID: 2, Quantity: 3})
	auth := &fakeAuth{identity: &domain.Identity{UserID: "user-1"}}
	svc := NewService(repo, &fakeLocalStore{}, auth, inlineQueue{})

	svc.OnAuthStateChange(auth.identity)
	if svc.Count() != 3 {
		t.Fatalf("count = %d before sign-out, want 3", svc.Count())
	}

	auth.identity = nil
	svc.OnAuthStateChange(nil)

	if svc.Count() != 3 {
		t.Errorf("count = %d after sign-out, want cart left as-is", svc.Count())
	}
}

func TestOnAuthStateChange_HydrationFailureKeepsCurrentCart(t *testing.T) {
	repo := newFakeCartRepo()
	local := &fakeLocalStore{snapshot: []domain.CartLine{
		{ProductID: 1, Quantity: 2},
	}}
	svc := NewService(repo, local, &fakeAuth{}, inlineQueue{})

	repo.err = errors.New("store unreachable")
	svc.OnAuthStateChange(&domain.Identity{UserID: "user-1"})

	if svc.Count() != 2 {
		t.Errorf("count = %d, want the pre-sign-in cart kept", svc.Count())
	}
}

func TestRemoveFromCart_Authenticated(t *testing.T) {
	repo := newFakeCartRepo()
	repo.seed("user-1", domain.CartLine{ProductID: 1, Quantity: 2})
	auth := &fakeAuth{identity: &domain.Identity{UserID: "user-1"}}
	svc := NewService(repo, &fakeLocalStore{}, auth, inlineQueue{})

	svc.OnAuthStateChange(auth.identity)
	svc.RemoveFromCart(1)

	if len(svc.Lines()) != 0 {
		t.Fatalf("lines = %v, want empty", svc.Lines())
	}
	if _, ok := repo.remote["user-1"][1]; ok {
		t.Error("remote row not deleted")
	}
}

func TestRemoveFromCart_MissingLineIsNoOp(t *testing.T) {
	local := &fakeLocalStore{}
	svc := NewService(newFakeCartRepo(), local, &fakeAuth{}, inlineQueue{})

	svc.RemoveFromCart(99)

	if local.snapshot != nil {
		t.Errorf("snapshot = %v, want no write for a no-op removal", local.snapshot)
	}
}
