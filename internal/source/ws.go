package source

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"candlechart/internal/model"
)

// WSConfig configures the websocket candle source.
type WSConfig struct {
	// URL of the candle feed, e.g. "ws://localhost:9001/ws".
	URL string
	// ReconnectDelay is the initial delay before reconnection attempts.
	// Defaults to 2 seconds.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the exponential backoff. Defaults to 30s.
	MaxReconnectDelay time.Duration
}

func (c *WSConfig) defaults() {
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = 2 * time.Second
	}
	if c.MaxReconnectDelay == 0 {
		c.MaxReconnectDelay = 30 * time.Second
	}
}

// WS streams candles from a plain-JSON websocket feed. The wire format is
// model.Candle:
//
//	{"ts":1700000000000,"open":101.2,"high":101.9,"low":100.8,"close":101.5,"volume":42}
//
// The connection is dialed when the first subscriber arrives, redialed
// with exponential backoff on disconnects, and closed when the last
// subscriber leaves.
type WS struct {
	emitter
	cfg WSConfig

	mu     sync.Mutex
	cancel context.CancelFunc

	// Optional hook fired on each reconnection attempt.
	OnReconnect func()
}

// NewWS creates a websocket source. Returns an error if the URL is
// unparseable.
func NewWS(cfg WSConfig) (*WS, error) {
	cfg.defaults()
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, err
	}
	w := &WS{cfg: cfg}
	w.emitter.start = w.activate
	w.emitter.stop = w.deactivate
	return w, nil
}

// Subscribe implements Source.
func (w *WS) Subscribe(h Handler) func() {
	return w.subscribe(h)
}

func (w *WS) activate() {
	ctx, cancel := context.WithCancel(context.Background())
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	go w.run(ctx)
}

func (w *WS) deactivate() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.mu.Unlock()
}

func (w *WS) run(ctx context.Context) {
	delay := w.cfg.ReconnectDelay

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := w.runOnce(ctx)
		if err == nil {
			// Context cancelled cleanly.
			return
		}

		log.Printf("[source/ws] disconnected (%v), reconnecting in %s", err, delay)
		if w.OnReconnect != nil {
			w.OnReconnect()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > w.cfg.MaxReconnectDelay {
			delay = w.cfg.MaxReconnectDelay
		}
	}
}

// runOnce makes a single connection attempt and reads until disconnect or
// cancellation.
func (w *WS) runOnce(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.cfg.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("[source/ws] connected to %s", w.cfg.URL)

	// Close the connection when the context goes away so ReadMessage
	// unblocks.
	go func() {
		<-ctx.Done()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		var c model.Candle
		if err := json.Unmarshal(data, &c); err != nil {
			log.Printf("[source/ws] skipping malformed candle: %v", err)
			continue
		}
		w.emit(c)
	}
}
