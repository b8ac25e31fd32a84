package source

import (
	"context"
	"errors"
	"sync"
	"time"

	"candlechart/internal/model"
)

// PlaybackConfig configures the array-playback source.
type PlaybackConfig struct {
	// Candles is the pre-sorted array to replay. Must not be empty.
	Candles []model.Candle
	// Speed scales the original inter-candle gaps: 2.0 replays twice as
	// fast. Ignored when FixedInterval is set. Must be positive.
	Speed float64
	// FixedInterval, when non-zero, replays one candle per interval
	// regardless of the original spacing.
	FixedInterval time.Duration
	// Loop restarts playback from the beginning after the last candle.
	Loop bool
}

// Playback replays a candle array, re-timestamping each candle relative
// to activation time. Construction rejects an empty array and a
// non-positive speed.
type Playback struct {
	emitter
	cfg PlaybackConfig

	mu     sync.Mutex
	pos    int
	cancel context.CancelFunc
}

// NewPlayback creates a playback source.
func NewPlayback(cfg PlaybackConfig) (*Playback, error) {
	if len(cfg.Candles) == 0 {
		return nil, errors.New("playback: empty candle array")
	}
	if cfg.FixedInterval == 0 && cfg.Speed <= 0 {
		return nil, errors.New("playback: speed must be positive")
	}
	p := &Playback{cfg: cfg}
	p.emitter.start = p.activate
	p.emitter.stop = p.deactivate
	return p, nil
}

// Subscribe implements Source.
func (p *Playback) Subscribe(h Handler) func() {
	return p.subscribe(h)
}

// Progress returns the index of the next candle to emit and the total
// count, for UI feedback.
func (p *Playback) Progress() (pos, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos, len(p.cfg.Candles)
}

func (p *Playback) activate() {
	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.cancel = cancel
	p.pos = 0
	p.mu.Unlock()

	go p.run(ctx)
}

func (p *Playback) deactivate() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.pos = 0
	p.mu.Unlock()
}

func (p *Playback) run(ctx context.Context) {
	for {
		base := time.Now().UnixMilli()
		first := p.cfg.Candles[0].TS

		for i := range p.cfg.Candles {
			var due int64
			if p.cfg.FixedInterval > 0 {
				due = base + int64(i)*p.cfg.FixedInterval.Milliseconds()
			} else {
				due = base + int64(float64(p.cfg.Candles[i].TS-first)/p.cfg.Speed)
			}

			if wait := due - time.Now().UnixMilli(); wait > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(wait) * time.Millisecond):
				}
			}
			if ctx.Err() != nil {
				return
			}

			out := p.cfg.Candles[i]
			out.TS = due // re-timestamp relative to activation
			p.emit(out)

			p.mu.Lock()
			p.pos = i + 1
			p.mu.Unlock()
		}

		if !p.cfg.Loop {
			return
		}
		p.mu.Lock()
		p.pos = 0
		p.mu.Unlock()
	}
}
