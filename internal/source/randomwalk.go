package source

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"candlechart/internal/model"
)

// RandomWalkConfig configures the synthetic random-walk source.
type RandomWalkConfig struct {
	// Interval between price ticks. Defaults to 250ms.
	Interval time.Duration
	// CandleDuration is how long one candle keeps forming before a new
	// one opens. Defaults to 5s.
	CandleDuration time.Duration
	// StartPrice seeds the walk. Defaults to 100.
	StartPrice float64
	// MaxStep bounds each random price step. Defaults to 0.5.
	MaxStep float64
	// MaxTickVolume bounds the random volume added per tick. Defaults to 10.
	MaxTickVolume float64
	// Seed for the deterministic RNG; 0 seeds from the clock.
	Seed int64
}

func (c *RandomWalkConfig) defaults() {
	if c.Interval == 0 {
		c.Interval = 250 * time.Millisecond
	}
	if c.CandleDuration == 0 {
		c.CandleDuration = 5 * time.Second
	}
	if c.StartPrice == 0 {
		c.StartPrice = 100
	}
	if c.MaxStep == 0 {
		c.MaxStep = 0.5
	}
	if c.MaxTickVolume == 0 {
		c.MaxTickVolume = 10
	}
}

// RandomWalk emits a synthetic candle stream: on every tick the price
// takes a bounded random step and the single forming candle updates in
// place (open unchanged, high/low extremes, close latest, volume
// accumulated). When the candle duration elapses a new candle opens.
type RandomWalk struct {
	emitter
	cfg RandomWalkConfig

	mu      sync.Mutex
	rng     *rand.Rand
	price   float64
	forming *model.Candle
	volume  float64
	cancel  context.CancelFunc

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewRandomWalk creates a random-walk source.
func NewRandomWalk(cfg RandomWalkConfig) *RandomWalk {
	cfg.defaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rw := &RandomWalk{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		price: cfg.StartPrice,
		now:   time.Now,
	}
	rw.emitter.start = rw.activate
	rw.emitter.stop = rw.deactivate
	return rw
}

// Subscribe implements Source.
func (rw *RandomWalk) Subscribe(h Handler) func() {
	return rw.subscribe(h)
}

func (rw *RandomWalk) activate() {
	ctx, cancel := context.WithCancel(context.Background())
	rw.mu.Lock()
	rw.cancel = cancel
	rw.mu.Unlock()

	go rw.run(ctx)
}

func (rw *RandomWalk) deactivate() {
	rw.mu.Lock()
	if rw.cancel != nil {
		rw.cancel()
		rw.cancel = nil
	}
	rw.forming = nil
	rw.volume = 0
	rw.mu.Unlock()
}

func (rw *RandomWalk) run(ctx context.Context) {
	ticker := time.NewTicker(rw.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rw.emit(rw.tick())
		}
	}
}

// tick advances the walk one step and returns the candle to push.
func (rw *RandomWalk) tick() model.Candle {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	rw.price += (rw.rng.Float64()*2 - 1) * rw.cfg.MaxStep
	if rw.price <= 0 {
		rw.price = rw.cfg.MaxStep
	}
	nowMS := rw.now().UnixMilli()
	durMS := rw.cfg.CandleDuration.Milliseconds()

	if rw.forming == nil || nowMS >= rw.forming.TS+durMS {
		// Open a new candle aligned to the duration bucket.
		openTS := nowMS - nowMS%durMS
		rw.volume = rw.rng.Float64() * rw.cfg.MaxTickVolume
		c := model.Candle{
			TS:    openTS,
			Open:  rw.price,
			High:  rw.price,
			Low:   rw.price,
			Close: rw.price,
		}
		rw.forming = &c
	} else {
		c := rw.forming
		if rw.price > c.High {
			c.High = rw.price
		}
		if rw.price < c.Low {
			c.Low = rw.price
		}
		c.Close = rw.price
		rw.volume += rw.rng.Float64() * rw.cfg.MaxTickVolume
	}

	out := *rw.forming
	v := rw.volume
	out.Volume = &v
	return out
}
