package source

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	goredis "github.com/go-redis/redis/v8"

	"candlechart/internal/model"
)

// RedisConfig configures the redis pub/sub candle source.
type RedisConfig struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
	// Channel carrying candle JSON payloads. Defaults to "pub:candles".
	Channel string
}

func (c *RedisConfig) defaults() {
	if c.Channel == "" {
		c.Channel = "pub:candles"
	}
}

// Redis streams candles published on a redis pub/sub channel. The
// subscription opens when the first chart subscriber arrives and closes
// with the last one.
type Redis struct {
	emitter
	cfg RedisConfig
	rdb *goredis.Client

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewRedis creates a redis pub/sub source.
func NewRedis(cfg RedisConfig) *Redis {
	cfg.defaults()
	r := &Redis{
		cfg: cfg,
		rdb: goredis.NewClient(&goredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
	r.emitter.start = r.activate
	r.emitter.stop = r.deactivate
	return r
}

// Subscribe implements Source.
func (r *Redis) Subscribe(h Handler) func() {
	return r.subscribe(h)
}

// Close releases the underlying redis client.
func (r *Redis) Close() error {
	r.deactivate()
	return r.rdb.Close()
}

func (r *Redis) activate() {
	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	go r.run(ctx)
}

func (r *Redis) deactivate() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()
}

func (r *Redis) run(ctx context.Context) {
	pubsub := r.rdb.Subscribe(ctx, r.cfg.Channel)
	defer pubsub.Close()

	log.Printf("[source/redis] subscribed to %s", r.cfg.Channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var c model.Candle
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				log.Printf("[source/redis] skipping malformed candle: %v", err)
				continue
			}
			r.emit(c)
		}
	}
}
