package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"kneexEngine/domain"
)

type fakeEventRepo struct {
	created []domain.InteractionEvent
	err     error
}

func (f *fakeEventRepo) Create(_ context.Context, event *domain.InteractionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *event)
	return nil
}

// fakeVisitors counts resolutions so tests can assert the id is minted
// before the event row is built.
type fakeVisitors struct {
	id    string
	calls int
}

func (f *fakeVisitors) GetOrCreateVisitorID() string {
	f.calls++
	return f.id
}

type inlineQueue struct{}

func (inlineQueue) Go(_ string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}

func uint64Ptr(v uint64) *uint64 { return &v }
func stringPtr(s string) *string { return &s }

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRecord_TagsVisitorAndPayload(t *testing.T) {
	repo := &fakeEventRepo{}
	visitors := &fakeVisitors{id: "visitor-1"}
	svc := NewService(repo, visitors, inlineQueue{})

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	svc.now = fixedNow(at)

	svc.Record(domain.EventProductClick, RecordInput{ProductID: uint64Ptr(7)})

	if len(repo.created) != 1 {
		t.Fatalf("created %d rows, want 1", len(repo.created))
	}
	got := repo.created[0]
	if got.VisitorID != "visitor-1" {
		t.Errorf("visitor id = %q, want visitor-1", got.VisitorID)
	}
	if got.EventType != domain.EventProductClick {
		t.Errorf("event type = %q, want %q", got.EventType, domain.EventProductClick)
	}
	if got.ProductID == nil || *got.ProductID != 7 {
		t.Errorf("product id = %v, want 7", got.ProductID)
	}
	if got.SearchQuery != nil {
		t.Errorf("search query = %v, want nil", *got.SearchQuery)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, at)
	}
}

func TestRecord_CreatesVisitorBeforeWriting(t *testing.T) {
	repo := &fakeEventRepo{}
	visitors := &fakeVisitors{id: "fresh-visitor"}
	svc := NewService(repo, visitors, inlineQueue{})

	svc.Record(domain.EventPageClick, RecordInput{})

	if visitors.calls != 1 {
		t.Fatalf("visitor resolved %d times, want 1", visitors.calls)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d rows, want 1", len(repo.created))
	}
	if repo.created[0].VisitorID != "fresh-visitor" {
		t.Errorf("row tagged %q, want fresh-visitor", repo.created[0].VisitorID)
	}
}

func TestRecord_NoDeduplication(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewService(repo, &fakeVisitors{id: "visitor-1"}, inlineQueue{})

	input := RecordInput{ProductID: uint64Ptr(7)}
	svc.Record(domain.EventProductClick, input)
	svc.Record(domain.EventProductClick, input)

	if len(repo.created) != 2 {
		t.Fatalf("created %d rows, want 2 for a repeated interaction", len(repo.created))
	}
}

func TestRecord_SearchSubmit(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewService(repo, &fakeVisitors{id: "visitor-1"}, inlineQueue{})

	svc.Record(domain.EventSearchSubmit, RecordInput{SearchQuery: stringPtr("organic honey")})

	if len(repo.created) != 1 {
		t.Fatalf("created %d rows, want 1", len(repo.created))
	}
	got := repo.created[0]
	if got.SearchQuery == nil || *got.SearchQuery != "organic honey" {
		t.Errorf("search query = %v, want organic honey", got.SearchQuery)
	}
	if got.ProductID != nil {
		t.Errorf("product id = %v, want nil", *got.ProductID)
	}
}

func TestRecord_MetadataOnlyWhenPresent(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewService(repo, &fakeVisitors{id: "visitor-1"}, inlineQueue{})

	svc.Record(domain.EventCheckoutStart, RecordInput{Metadata: map[string]any{"items": 3}})
	svc.Record(domain.EventPageClick, RecordInput{})

	if len(repo.created) != 2 {
		t.Fatalf("created %d rows, want 2", len(repo.created))
	}
	if repo.created[0].Metadata == nil {
		t.Error("checkout event lost its metadata")
	}
	if repo.created[1].Metadata != nil {
		t.Errorf("bare click got metadata %v, want none", repo.created[1].Metadata)
	}
}

func TestRecord_WriteFailureIsSwallowed(t *testing.T) {
	repo := &fakeEventRepo{err: errors.New("store unreachable")}
	svc := NewService(repo, &fakeVisitors{id: "visitor-1"}, inlineQueue{})

	// must not panic or surface anything to the caller
	svc.Record(domain.EventProductClick, RecordInput{ProductID: uint64Ptr(7)})
}
