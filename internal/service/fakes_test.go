package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/queue"
	"github.com/iliyamo/game-topup-store/internal/repository"
)

// fakeUsers is an in-memory UserStore keyed by email.
type fakeUsers struct {
	mu        sync.Mutex
	byEmail   map[string]*model.User
	nextID    uint64
	CreateErr error
	calls     int
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byEmail: map[string]*model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.CreateErr != nil {
		return f.CreateErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrEmailExists
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// fakeSessions is an in-memory SessionStore that resolves users through
// the attached fakeUsers.
type fakeSessions struct {
	mu      sync.Mutex
	byToken map[string]*model.Session
	users   *fakeUsers
	deleted []string
}

func newFakeSessions(users *fakeUsers) *fakeSessions {
	return &fakeSessions{byToken: map[string]*model.Session{}, users: users}
}

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uint64(len(f.byToken) + 1)
	cp := *s
	f.byToken[s.Token] = &cp
	return nil
}

func (f *fakeSessions) FindWithUser(_ context.Context, token string) (*model.Session, *model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byToken[token]
	if !ok {
		return nil, nil, repository.ErrSessionNotFound
	}
	for _, u := range f.users.byEmail {
		if u.ID == s.UserID {
			cs, cu := *s, *u
			return &cs, &cu, nil
		}
	}
	return nil, nil, repository.ErrSessionNotFound
}

func (f *fakeSessions) DeleteByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byToken, token)
	f.deleted = append(f.deleted, token)
	return nil
}

// mockOrderStore implements OrderStore with overridable functions.
type mockOrderStore struct {
	CreateFunc           func(ctx context.Context, o *model.Order) error
	GetByIDFunc          func(ctx context.Context, id uint64) (*model.Order, error)
	TransitionStatusFunc func(ctx context.Context, id uint64, to string, allowed func(from, to string) bool) (string, error)
	ListByUserFunc       func(ctx context.Context, userID uint64) ([]*model.Order, error)
	ListAllFunc          func(ctx context.Context) ([]*model.Order, error)
	StatsFunc            func(ctx context.Context) (model.OrderStats, error)
	calls                int
}

func (m *mockOrderStore) Create(ctx context.Context, o *model.Order) error {
	m.calls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	o.ID = 1
	return nil
}

func (m *mockOrderStore) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	m.calls++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderStore) TransitionStatus(ctx context.Context, id uint64, to string, allowed func(from, to string) bool) (string, error) {
	m.calls++
	if m.TransitionStatusFunc != nil {
		return m.TransitionStatusFunc(ctx, id, to, allowed)
	}
	return "", repository.ErrOrderNotFound
}

func (m *mockOrderStore) ListByUser(ctx context.Context, userID uint64) ([]*model.Order, error) {
	m.calls++
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockOrderStore) ListAll(ctx context.Context) ([]*model.Order, error) {
	m.calls++
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockOrderStore) Stats(ctx context.Context) (model.OrderStats, error) {
	m.calls++
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return model.OrderStats{}, nil
}

// catalogFake serves products, games and offers from maps.
type catalogFake struct {
	products map[uint64]*model.Product
	games    map[uint64]*model.Game
	offers   []*model.Offer
	calls    int
}

func (f *catalogFake) GetByID(_ context.Context, id uint64) (*model.Product, error) {
	f.calls++
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *catalogFake) ListActiveForGame(_ context.Context, gameID uint64, _ time.Time) ([]*model.Offer, error) {
	f.calls++
	var out []*model.Offer
	for _, o := range f.offers {
		if o.GameID == gameID {
			out = append(out, o)
		}
	}
	return out, nil
}

type gameLookupFunc func(ctx context.Context, id uint64) (*model.Game, error)

func (f gameLookupFunc) GetByID(ctx context.Context, id uint64) (*model.Game, error) { return f(ctx, id) }

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []queue.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.OrderEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

var (
	_ UserStore      = (*fakeUsers)(nil)
	_ SessionStore   = (*fakeSessions)(nil)
	_ OrderStore     = (*mockOrderStore)(nil)
	_ ProductLookup  = (*catalogFake)(nil)
	_ OfferLookup    = (*catalogFake)(nil)
	_ GameLookup     = gameLookupFunc(nil)
	_ EventPublisher = (*recordingPublisher)(nil)
)
