package pageview

import (
	"context"
	"sync"
	"time"

	"kneexEngine/domain"
	"kneexEngine/pkg/metrics"
)

// Tracker state machine. At most one session is OPEN at any instant as
// observed by this tracker.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateOpen
	StateClosing
)

// PageViewRepository contract interface. Create fills in the store-assigned
// session id on the model.
type PageViewRepository interface {
	Create(ctx context.Context, view *domain.PageView) error
	Close(ctx context.Context, id uint64, exitedAt time.Time) error
}

type VisitorIdentity interface {
	GetOrCreateVisitorID() string
}

type Dispatcher interface {
	Go(operation string, fn func(ctx context.Context) error)
}

// Tracker owns the "currently open page view" lifecycle. Route changes from
// the rendering layer drive it; all store calls are fire-and-forget.
type Tracker struct {
	pageViewRepo PageViewRepository
	visitors     VisitorIdentity
	queue        Dispatcher
	now          func() time.Time

	mu    sync.Mutex
	state State
	// gen identifies the route activation the in-flight or open session
	// belongs to; 0 means no current route.
	gen     uint64
	lastGen uint64
	// closeFn is the close capability for the OPEN session. Invoking it
	// issues the async exited_at update exactly once.
	closeFn func()
}

func NewTracker(pageViewRepo PageViewRepository, visitors VisitorIdentity, queue Dispatcher) *Tracker {
	return &Tracker{
		pageViewRepo: pageViewRepo,
		visitors:     visitors,
		queue:        queue,
		now:          time.Now,
	}
}

// RouteActivated starts a session for the newly active route. The previous
// session's close is issued synchronously here, before the new create is
// initiated, so the tracker's bookkeeping never holds two OPEN sessions.
//
// If the previous create has not resolved yet its close capability does not
// exist; the close is then issued the moment that create resolves, while
// the new route's create proceeds in parallel. The server may briefly see
// two open sessions in that window; the tracker does not.
func (t *Tracker) RouteActivated(path string) {
	visitorID := t.visitors.GetOrCreateVisitorID()

	t.mu.Lock()
	t.closeCurrentLocked()

	t.lastGen++
	gen := t.lastGen
	t.gen = gen
	t.state = StateOpening

	view := &domain.PageView{
		VisitorID: visitorID,
		PagePath:  path,
		EnteredAt: t.now().UTC(),
	}
	t.mu.Unlock()

	t.queue.Go("page_views.insert", func(ctx context.Context) error {
		if err := t.pageViewRepo.Create(ctx, view); err != nil {
			t.createFailed(gen)
			return err
		}

		t.createResolved(gen, view.ID)
		return nil
	})
}

// RouteDeactivated closes the current session without opening a new one
// (the tracked surface went away).
func (t *Tracker) RouteDeactivated() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeCurrentLocked()
}

// Shutdown best-effort closes whatever is still open. No retry; a create
// still in flight at process exit may leave its session unclosed.
func (t *Tracker) Shutdown() {
	t.RouteDeactivated()
}

// CurrentState reports the machine's state, for the engine's own
// bookkeeping and tests.
func (t *Tracker) CurrentState() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

func (t *Tracker) closeCurrentLocked() {
	switch t.state {
	case StateOpen:
		closeFn := t.closeFn
		t.closeFn = nil
		t.state = StateClosing
		closeFn()
		t.state = StateIdle
	case StateOpening:
		// no close capability yet; clearing gen makes createResolved
		// close the session as soon as the create comes back
		t.state = StateIdle
	}

	t.gen = 0
}

func (t *Tracker) createResolved(gen, sessionID uint64) {
	metrics.PageViewsOpened.Inc()
	closeFn := t.makeCloseFn(sessionID)

	t.mu.Lock()
	if t.gen != gen {
		t.mu.Unlock()
		// the route was left while the create was in flight
		closeFn()
		return
	}

	t.state = StateOpen
	t.closeFn = closeFn
	t.mu.Unlock()
}

func (t *Tracker) createFailed(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gen == gen {
		t.state = StateIdle
		t.gen = 0
	}
}

func (t *Tracker) makeCloseFn(sessionID uint64) func() {
	var once sync.Once

	return func() {
		once.Do(func() {
			metrics.PageViewsClosed.Inc()
			t.queue.Go("page_views.close", func(ctx context.Context) error {
				return t.pageViewRepo.Close(ctx, sessionID, t.now().UTC())
			})
		})
	}
}
