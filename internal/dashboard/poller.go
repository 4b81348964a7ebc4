package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"qc-tracking-backend/internal/client"
)

// Fetcher loads one snapshot of the server state.
type Fetcher interface {
	Snapshot(ctx context.Context) (client.Snapshot, error)
}

// Poller re-fetches the server state on a fixed interval. Each tick
// supersedes the request still in flight from the previous one, and a
// response is only applied when it is newer than the last applied one, so a
// slow old response never overwrites fresher data. A failed fetch leaves the
// last snapshot in place.
type Poller struct {
	fetch    Fetcher
	interval time.Duration
	log      *zap.Logger

	// OnUpdate and OnError are called from fetch goroutines, one call at a
	// time. They may call Last and Refresh.
	OnUpdate func(client.Snapshot)
	OnError  func(error)

	// cbMu serialises callbacks; mu is never held while one runs.
	cbMu     sync.Mutex
	mu       sync.Mutex
	seq      uint64
	applied  uint64
	cancel   context.CancelFunc
	last     client.Snapshot
	hasLast  bool
	inflight sync.WaitGroup
	kick     chan struct{}
}

// NewPoller creates a poller fetching every interval.
func NewPoller(f Fetcher, interval time.Duration, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		fetch:    f,
		interval: interval,
		log:      log,
		kick:     make(chan struct{}, 1),
	}
}

// Run fetches immediately and then on every tick until ctx is cancelled. It
// returns once every fetch it started has finished.
func (p *Poller) Run(ctx context.Context) {
	defer p.inflight.Wait()

	p.refresh(ctx)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Debug("poller shutting down")
			p.mu.Lock()
			if p.cancel != nil {
				p.cancel()
			}
			p.mu.Unlock()
			return
		case <-timer.C:
			p.refresh(ctx)
			timer.Reset(p.interval)
		case <-p.kick:
			p.refresh(ctx)
			timer.Reset(p.interval)
		}
	}
}

// Refresh asks a running poller to fetch now instead of waiting for the next
// tick, for example right after a submission.
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Last returns the most recently applied snapshot.
func (p *Poller) Last() (client.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.hasLast
}

func (p *Poller) refresh(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.seq++
	seq := p.seq
	fctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		defer cancel()
		snap, err := p.fetch.Snapshot(fctx)
		if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
			// Shutting down.
			return
		}
		p.deliver(seq, snap, err)
	}()
}

func (p *Poller) deliver(seq uint64, snap client.Snapshot, err error) {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()

	if err != nil {
		p.mu.Lock()
		current := seq == p.seq
		p.mu.Unlock()
		if !current {
			// Superseded; its failure is usually our own cancellation.
			return
		}
		p.log.Warn("refresh failed, keeping previous data", zap.Uint64("seq", seq), zap.Error(err))
		if p.OnError != nil {
			p.OnError(err)
		}
		return
	}

	p.mu.Lock()
	if seq <= p.applied {
		applied := p.applied
		p.mu.Unlock()
		p.log.Debug("dropping stale snapshot", zap.Uint64("seq", seq), zap.Uint64("applied", applied))
		return
	}
	p.applied = seq
	p.last = snap
	p.hasLast = true
	p.mu.Unlock()

	if p.OnUpdate != nil {
		p.OnUpdate(snap)
	}
}
