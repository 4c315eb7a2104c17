package candle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/candletrader/exchange"
	"github.com/rustyeddy/candletrader/market"
)

// ErrExchangeStalled is returned when repeated exchange fetches make no
// forward progress on a requested range.
var ErrExchangeStalled = errors.New("candle: exchange stalled")

// maxStallIterations bounds how many exchange round trips the provisioner
// will make for one sub-range before giving up with ErrExchangeStalled.
const maxStallIterations = 3

// Store is the persistence tier the provisioner consults between the
// buffer and the exchange. store.SQLite satisfies this.
type Store interface {
	CandlesByTime(ctx context.Context, symbol string, minutes int32, start, end time.Time) ([]market.Candle, error)
	InsertCandles(ctx context.Context, batch []market.Candle) error
}

// Provisioner materializes the exact bar sequence a Selection asks for,
// fetching lazily through buffer -> store -> exchange and writing inward
// only. One Provisioner is meant to be shared across concurrently running
// strategies: each (symbol,minutes) key gets its own buffer and its own
// write lock, a single-mutex-over-a-map idiom.
type Provisioner struct {
	store    Store
	exchange exchange.Exchange

	mu      sync.Mutex
	buffers map[string]*Buffer
	locks   map[string]*sync.Mutex
}

// NewProvisioner builds a Provisioner over a store and an exchange tier.
func NewProvisioner(store Store, ex exchange.Exchange) *Provisioner {
	return &Provisioner{
		store:    store,
		exchange: ex,
		buffers:  make(map[string]*Buffer),
		locks:    make(map[string]*sync.Mutex),
	}
}

// countBars sums the number of bar slots covered by ranges, each a closed
// [Start, End] interval on the minutes grid. Used to detect genuine
// forward progress across a provisioning round, rather than trusting an
// exchange call that returned bars but didn't shrink what's missing.
func countBars(ranges []market.OpenCloseRange, minutes int32) int {
	duration := time.Duration(minutes) * time.Minute
	total := 0
	for _, r := range ranges {
		span := r.End.OpenTime().Sub(r.Start.OpenTime())
		total += int(span/duration) + 1
	}
	return total
}

func key(symbol string, minutes int32) string {
	return fmt.Sprintf("%s|%d", symbol, minutes)
}

func (p *Provisioner) lockFor(k string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[k]
	if !ok {
		l = &sync.Mutex{}
		p.locks[k] = l
	}
	return l
}

func (p *Provisioner) bufferFor(k string, symbol string, minutes int32) *Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.buffers[k]
	if !ok {
		b = NewBuffer(symbol, minutes)
		p.buffers[k] = b
	}
	return b
}

// Provide returns the exact bar sequence with open_time in
// [sel.StartTime, sel.EndTime], fetching whatever is missing from the
// store and, failing that, the exchange.
func (p *Provisioner) Provide(ctx context.Context, sel market.Selection) ([]market.Candle, error) {
	r, err := sel.Range()
	if err != nil {
		return nil, err
	}

	k := key(sel.Symbol, sel.Minutes)
	lock := p.lockFor(k)
	lock.Lock()
	defer lock.Unlock()

	buf := p.bufferFor(k, sel.Symbol, sel.Minutes)

	missingBuf, err := buf.MissingRanges(sel.StartTime, sel.EndTime)
	if err != nil {
		return nil, err
	}
	missingCount := countBars(missingBuf, sel.Minutes)

	for missingCount > 0 {
		for _, mr := range missingBuf {
			if err := p.fillFromStore(ctx, buf, sel, mr); err != nil {
				return nil, err
			}

			stillMissing, err := buf.MissingRanges(mr.Start.OpenTime(), mr.End.OpenTime())
			if err != nil {
				return nil, err
			}
			for _, sr := range stillMissing {
				if _, err := p.fillFromExchange(ctx, buf, sel, sr); err != nil {
					return nil, err
				}
			}
		}

		missingBuf, err = buf.MissingRanges(sel.StartTime, sel.EndTime)
		if err != nil {
			return nil, err
		}
		next := countBars(missingBuf, sel.Minutes)
		if next >= missingCount {
			return nil, fmt.Errorf("%w: no progress filling %s/%d", ErrExchangeStalled, sel.Symbol, sel.Minutes)
		}
		missingCount = next
	}

	return buf.CandlesFromRange(sel.StartTime, sel.EndTime), nil
}

func (p *Provisioner) fillFromStore(ctx context.Context, buf *Buffer, sel market.Selection, mr market.OpenCloseRange) error {
	repo, err := p.store.CandlesByTime(ctx, sel.Symbol, sel.Minutes, mr.Start.OpenTime(), mr.End.OpenTime())
	if err != nil {
		return fmt.Errorf("candle: store fetch: %w", err)
	}
	if len(repo) == 0 {
		return nil
	}
	if sel.HeikinAshi {
		repo = HeikinAshi(repo)
	}
	return buf.PushCandles(repo)
}

func (p *Provisioner) fillFromExchange(ctx context.Context, buf *Buffer, sel market.Selection, sr market.OpenCloseRange) (int, error) {
	start, end := sr.Start.OpenTime(), sr.End.OpenTime()

	for attempt := 0; attempt < maxStallIterations; attempt++ {
		got, err := p.exchange.Candles(ctx, sel.Symbol, sel.Minutes, start, end, 1000)
		if err != nil {
			return 0, fmt.Errorf("candle: exchange fetch: %w", err)
		}
		if len(got) == 0 {
			continue
		}

		if err := p.store.InsertCandles(ctx, got); err != nil {
			return 0, err
		}

		toBuffer := got
		if sel.HeikinAshi {
			toBuffer = HeikinAshi(got)
		}
		if err := buf.PushCandles(toBuffer); err != nil {
			return 0, err
		}
		return len(got), nil
	}
	return 0, fmt.Errorf("%w: %s/%d in [%s,%s]", ErrExchangeStalled, sel.Symbol, sel.Minutes, start, end)
}
