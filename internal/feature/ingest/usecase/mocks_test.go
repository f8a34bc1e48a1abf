package usecase

import (
	"context"
	"errors"
	"maps"
	"time"

	"stock_ingest/internal/feature/ingest/domain"
	"stock_ingest/internal/feature/ingest/domain/entity"
)

var (
	ErrMarketAPI = errors.New("market API error")
	ErrDB        = errors.New("database error")
)

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	universe     map[string]entity.Instrument
	FetchFunc    func(ctx context.Context, symbol string) (entity.PricePoint, error)
	ResolveCalls int
	FetchCalls   map[string]int
}

func (m *mockMarketRepository) ResolveInstrument(ctx context.Context, symbol string) (entity.Instrument, error) {
	m.ResolveCalls++
	inst, ok := m.universe[symbol]
	if !ok {
		return entity.Instrument{}, domain.ErrInstrumentNotFound
	}
	return inst, nil
}

func (m *mockMarketRepository) FetchLatestRecord(ctx context.Context, symbol string) (entity.PricePoint, error) {
	if m.FetchCalls == nil {
		m.FetchCalls = map[string]int{}
	}
	m.FetchCalls[symbol]++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol)
	}
	return entity.PricePoint{}, errors.New("FetchFunc is not implemented")
}

// mockFundamentalsProvider is a mock implementation of the FundamentalsProvider interface.
type mockFundamentalsProvider struct {
	FetchFunc  func(ctx context.Context, symbol string) (entity.Fundamentals, error)
	FetchCalls int
}

func (m *mockFundamentalsProvider) FetchFundamentals(ctx context.Context, symbol string) (entity.Fundamentals, error) {
	m.FetchCalls++
	return m.FetchFunc(ctx, symbol)
}

type company struct {
	ID   uint
	Name string
}

type snapshotKey struct {
	CompanyID uint
	Date      time.Time
}

// fakeStore keeps rows in maps with the same uniqueness rules as the database.
type fakeStore struct {
	nextID       uint
	companies    map[string]company
	snapshots    map[snapshotKey]entity.PricePoint
	fundamentals map[string]entity.Fundamentals

	EnsureCalls       int
	SnapshotCalls     int
	FundamentalsCalls int
	SnapshotErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		companies:    map[string]company{},
		snapshots:    map[snapshotKey]entity.PricePoint{},
		fundamentals: map[string]entity.Fundamentals{},
	}
}

func (s *fakeStore) clone() *fakeStore {
	c := *s
	c.companies = maps.Clone(s.companies)
	c.snapshots = maps.Clone(s.snapshots)
	c.fundamentals = maps.Clone(s.fundamentals)
	return &c
}

func (s *fakeStore) EnsureCompany(ctx context.Context, symbol, name string) (uint, error) {
	s.EnsureCalls++
	c, ok := s.companies[symbol]
	if !ok {
		s.nextID++
		c.ID = s.nextID
	}
	c.Name = name
	s.companies[symbol] = c
	return c.ID, nil
}

func (s *fakeStore) UpsertPriceSnapshot(ctx context.Context, companyID uint, date time.Time, p entity.PricePoint) error {
	s.SnapshotCalls++
	if s.SnapshotErr != nil {
		return s.SnapshotErr
	}
	s.snapshots[snapshotKey{CompanyID: companyID, Date: date}] = p
	return nil
}

func (s *fakeStore) UpsertFundamentals(ctx context.Context, symbol string, f entity.Fundamentals) error {
	s.FundamentalsCalls++
	s.fundamentals[symbol] = f
	return nil
}

// fakeTransactor stages every run on a copy of the committed store and
// only swaps it in when fn succeeds.
type fakeTransactor struct {
	committed *fakeStore
	staged    *fakeStore
	Commits   int
	Rollbacks int
}

func newFakeTransactor() *fakeTransactor {
	return &fakeTransactor{committed: newFakeStore()}
}

func (t *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	t.staged = t.committed.clone()
	if err := fn(ctx, t.staged); err != nil {
		t.Rollbacks++
		return err
	}
	t.committed = t.staged
	t.Commits++
	return nil
}

// mockInvalidator records invalidated symbols.
type mockInvalidator struct {
	Calls [][]string
	Err   error
}

func (m *mockInvalidator) Invalidate(ctx context.Context, symbols []string) error {
	m.Calls = append(m.Calls, symbols)
	return m.Err
}
