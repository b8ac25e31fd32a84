// cmd/candleserver — Demo WebSocket candle server.
// Broadcasts simulated OHLCV candles for driving a chart without a real
// market feed.
//
// Candle JSON shape is identical to model.Candle:
//
//	{"ts":1700000000000,"open":101.2,"high":101.9,"low":100.8,"close":101.5,"volume":42}
//
// The forming candle is re-broadcast on every tick; a new bucket starts
// every candle_dur_ms, so clients exercise both the update and append
// paths.
//
// Config (env vars, YAML via CHART_CONFIG):
//
//	LISTEN_ADDR         — listen address          (default: ":8081")
//	CANDLE_SYMBOLS      — comma-separated symbols (default: "BTCUSD,ETHUSD")
//	CHART_CANDLE_DUR_MS — candle bucket duration  (default: "5000")
//	CANDLE_TICK_MS      — tick interval ms        (default: "250")
package main

import (
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"candlechart/config"
	"candlechart/internal/logger"
	"candlechart/internal/model"
)

// symbolState holds per-symbol simulation state.
type symbolState struct {
	Symbol  string
	Price   float64
	Forming model.Candle
	Volume  float64
}

type hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]chan []byte)}
}

func (h *hub) register(conn *websocket.Conn) chan []byte {
	ch := make(chan []byte, 256)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		select {
		case ch <- msg:
		default: // slow client, drop candle
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

func wsHandler(h *hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[candleserver] upgrade error: %v", err)
			return
		}
		log.Printf("[candleserver] client connected: %s", r.RemoteAddr)

		ch := h.register(conn)
		defer func() {
			h.unregister(conn)
			conn.Close()
			log.Printf("[candleserver] client disconnected: %s", r.RemoteAddr)
		}()

		// Write pump: sends candle JSON to this client.
		for msg := range ch {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// walkPrice applies a tiny random walk to simulate price movement.
func walkPrice(price float64, rng *rand.Rand) float64 {
	pct := (rng.Float64()*0.2 - 0.1) / 100.0
	next := price + price*pct
	if next < 0.01 {
		next = 0.01
	}
	return next
}

// tick advances one symbol: rolls the bucket when the duration elapses,
// otherwise folds the new price into the forming candle.
func (s *symbolState) tick(nowMS, durMS int64, rng *rand.Rand) model.Candle {
	s.Price = walkPrice(s.Price, rng)
	bucket := nowMS - nowMS%durMS

	if s.Forming.TS != bucket {
		s.Volume = 0
		s.Forming = model.Candle{
			TS: bucket, Open: s.Price, High: s.Price, Low: s.Price, Close: s.Price,
		}
	}
	if s.Price > s.Forming.High {
		s.Forming.High = s.Price
	}
	if s.Price < s.Forming.Low {
		s.Forming.Low = s.Price
	}
	s.Forming.Close = s.Price
	s.Volume += float64(rng.Intn(100) + 1)
	return s.Forming.WithVolume(s.Volume)
}

func runGenerator(h *hub, states []*symbolState, durMS int64, tickMS int) {
	ticker := time.NewTicker(time.Duration(tickMS) * time.Millisecond)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for range ticker.C {
		nowMS := time.Now().UnixMilli()
		for _, st := range states {
			c := st.tick(nowMS, durMS, rng)
			h.broadcast(c.JSON())
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[candleserver] config: %v", err)
	}
	slg := logger.Init("candleserver", logger.ParseLevel(cfg.LogLevel))

	symbols := parseSymbols(envOrDefault("CANDLE_SYMBOLS", "BTCUSD,ETHUSD"))
	if len(symbols) == 0 {
		log.Fatalf("[candleserver] no symbols configured via CANDLE_SYMBOLS")
	}
	tickMS := envIntOrDefault("CANDLE_TICK_MS", 250)

	states := make([]*symbolState, 0, len(symbols))
	for _, sym := range symbols {
		states = append(states, &symbolState{Symbol: sym, Price: startPrice(sym)})
	}

	slg.Info("starting candle server",
		slog.String("addr", cfg.ListenAddr),
		slog.Any("symbols", symbols),
		slog.Int64("candle_dur_ms", cfg.CandleDurMS),
		slog.Int("tick_ms", tickMS),
	)

	h := newHub()
	go runGenerator(h, states, cfg.CandleDurMS, tickMS)

	http.HandleFunc("/ws", wsHandler(h))
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"status":"ok","service":"candleserver"}`)
	})

	log.Printf("[candleserver] listening on %s (WebSocket: ws://localhost%s/ws)", cfg.ListenAddr, cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("[candleserver] server error: %v", err)
	}
}

func startPrice(symbol string) float64 {
	defaults := map[string]float64{
		"BTCUSD": 64000,
		"ETHUSD": 3200,
		"SOLUSD": 140,
	}
	if p, ok := defaults[symbol]; ok {
		return p
	}
	return 100
}

func parseSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
