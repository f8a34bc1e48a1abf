package binance

import (
	"context"
	"maps"
	"sync"

	"stock_ingest/internal/feature/ingest/domain"
	"stock_ingest/internal/feature/ingest/domain/entity"
)

// UniverseLoader fetches the full symbol → instrument map of an exchange.
type UniverseLoader func(ctx context.Context) (map[string]entity.Instrument, error)

// Universe is a lazily loaded, never refreshed view of the exchange's symbols.
//
// The first Lookup performs exactly one load; the result is kept for the
// lifetime of the value. A failed load is returned to the caller and not
// remembered, so the next Lookup tries again. Build a new Universe to pick up
// listing changes.
type Universe struct {
	load UniverseLoader

	mu          sync.Mutex
	loaded      bool
	instruments map[string]entity.Instrument
}

// NewUniverse returns a Universe that loads through load on first use.
func NewUniverse(load UniverseLoader) *Universe {
	return &Universe{load: load}
}

// NewStaticUniverse returns an already loaded Universe. Keys are normalized.
func NewStaticUniverse(instruments map[string]entity.Instrument) *Universe {
	u := &Universe{loaded: true, instruments: make(map[string]entity.Instrument, len(instruments))}
	for k, v := range instruments {
		u.instruments[entity.NormalizeSymbol(k)] = v
	}
	return u
}

// Lookup returns the instrument for symbol or domain.ErrInstrumentNotFound.
func (u *Universe) Lookup(ctx context.Context, symbol string) (entity.Instrument, error) {
	instruments, err := u.ensureLoaded(ctx)
	if err != nil {
		return entity.Instrument{}, err
	}
	inst, ok := instruments[entity.NormalizeSymbol(symbol)]
	if !ok {
		return entity.Instrument{}, domain.ErrInstrumentNotFound
	}
	return inst, nil
}

// Len returns the number of known instruments, loading the universe if needed.
func (u *Universe) Len(ctx context.Context) (int, error) {
	instruments, err := u.ensureLoaded(ctx)
	if err != nil {
		return 0, err
	}
	return len(instruments), nil
}

func (u *Universe) ensureLoaded(ctx context.Context) (map[string]entity.Instrument, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.loaded {
		return u.instruments, nil
	}
	instruments, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	u.instruments = maps.Clone(instruments)
	if u.instruments == nil {
		u.instruments = map[string]entity.Instrument{}
	}
	u.loaded = true
	return u.instruments, nil
}
