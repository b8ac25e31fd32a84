// cmd/chartdemo — Headless chart demo.
// Wires a chart onto a recording surface, feeds it from a configurable
// source and flushes frames on a fixed cadence, logging what each frame
// drew. Useful for exercising the full engine without a display.
//
// Config (env vars, YAML via CHART_CONFIG): see the config package.
// In addition:
//
//	CHART_FRAME_MS — frame flush interval ms (default: "100")
//	CHART_RECORD   — "true" to persist incoming candles to SQLite
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"candlechart/config"
	"candlechart/internal/chart"
	"candlechart/internal/history"
	"candlechart/internal/layout"
	"candlechart/internal/logger"
	"candlechart/internal/metrics"
	"candlechart/internal/model"
	"candlechart/internal/overlay"
	"candlechart/internal/render"
	"candlechart/internal/series"
	"candlechart/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[chartdemo] config: %v", err)
	}
	slg := logger.Init("chartdemo", logger.ParseLevel(cfg.LogLevel))

	prom := metrics.New(prometheus.DefaultRegisterer)
	metricsSrv := metrics.NewServer(cfg.MetricsAddr)
	metricsSrv.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// ---- Chart over a recording surface ----
	surface := render.NewRecordSurface(float64(cfg.Width), float64(cfg.Height))
	ch := chart.New(surface, chart.Options{
		Width:           float64(cfg.Width),
		Height:          float64(cfg.Height),
		EnablePan:       true,
		EnableZoom:      true,
		EnableCrosshair: true,
		WheelMode:       model.WheelMode(cfg.WheelMode),
		ZoomSpeed:       cfg.ZoomSpeed,
		MinVisibleBars:  cfg.MinVisibleBars,
		MaxVisibleBars:  cfg.MaxVisibleBars,
		Layout:          layout.Options{ShowVolume: true},
	})
	ch.SetMetrics(prom)
	defer ch.Close()

	// ---- Backfill from SQLite when available ----
	if seed := backfill(slg, cfg); len(seed) > 0 {
		ch.AddSeries(cfg.Symbol, seed)
	} else {
		ch.AddSeries(cfg.Symbol, nil)
	}

	ch.InstallPlugin(overlay.NewSMA(20, "#e0b341", func() *series.Series {
		return ch.Series(cfg.Symbol)
	}))

	// ---- Source selection ----
	src, err := buildSource(cfg, prom)
	if err != nil {
		log.Fatalf("[chartdemo] source %q: %v", cfg.Source, err)
	}

	// The chart queues source emissions internally and applies them on
	// this goroutine during Flush.
	ch.ConnectSource(cfg.Symbol, src)
	defer ch.DisconnectSource(cfg.Symbol)

	// ---- Optional SQLite recording, off the hot path ----
	// The recorder taps the source with its own subscription so the
	// chart's queue stays free of persistence concerns.
	recordCh := startRecorder(ctx, slg, cfg)
	if recordCh != nil {
		unsubRec := src.Subscribe(func(c model.Candle) {
			select {
			case recordCh <- history.Record{Symbol: cfg.Symbol, Candle: c}:
			default:
			}
		})
		defer unsubRec()
	}

	frameMS := envIntOrDefault("CHART_FRAME_MS", 100)
	ticker := time.NewTicker(time.Duration(frameMS) * time.Millisecond)
	defer ticker.Stop()

	report := time.NewTicker(5 * time.Second)
	defer report.Stop()

	slg.Info("chart demo running",
		slog.String("source", cfg.Source),
		slog.String("symbol", cfg.Symbol),
		slog.Int("frame_ms", frameMS),
	)

	frames := 0
	for {
		select {
		case <-sigCh:
			slg.Info("shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
			metricsSrv.Stop(shutdownCtx)
			shutdownCancel()
			return

		case <-ticker.C:
			surface.Reset()
			ch.Flush()
			if surface.CountOp("clear") > 0 {
				frames++
			}

		case <-report.C:
			ser := ch.Series(cfg.Symbol)
			vp := ch.Viewport()
			slg.Info("frame report",
				slog.Int("frames", frames),
				slog.Int("candles", ser.Len()),
				slog.Int64("window_start", vp.Time.Start),
				slog.Int64("window_end", vp.Time.End),
				slog.Int("draw_ops", len(surface.Ops)),
			)
		}
	}
}

// backfill loads recorded candles for the configured symbol, if the
// SQLite file exists.
func backfill(slg *slog.Logger, cfg *config.Config) []model.Candle {
	if _, err := os.Stat(cfg.SQLitePath); err != nil {
		return nil
	}
	r, err := history.NewReader(cfg.SQLitePath)
	if err != nil {
		slg.Warn("history open failed", slog.String("err", err.Error()))
		return nil
	}
	defer r.Close()

	rows, err := r.ReadCandles(cfg.Symbol, 0)
	if err != nil {
		slg.Warn("history read failed", slog.String("err", err.Error()))
		return nil
	}
	slg.Info("backfilled candles", slog.Int("count", len(rows)))
	return rows
}

func buildSource(cfg *config.Config, prom *metrics.Metrics) (source.Source, error) {
	switch cfg.Source {
	case "randomwalk":
		return source.NewRandomWalk(source.RandomWalkConfig{
			CandleDuration: time.Duration(cfg.CandleDurMS) * time.Millisecond,
		}), nil

	case "playback":
		r, err := history.NewReader(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		rows, err := r.ReadCandles(cfg.Symbol, 0)
		if err != nil {
			return nil, err
		}
		pb, err := source.NewPlayback(source.PlaybackConfig{
			Candles: rows,
			Speed:   1,
			Loop:    true,
		})
		if err != nil {
			return nil, err
		}
		return pb, nil

	case "ws":
		ws, err := source.NewWS(source.WSConfig{URL: cfg.WSURL})
		if err != nil {
			return nil, err
		}
		ws.OnReconnect = prom.WSReconnects.Inc
		return ws, nil

	case "redis":
		return source.NewRedis(source.RedisConfig{
			Addr:    cfg.RedisAddr,
			Channel: cfg.RedisChannel,
		}), nil
	}
	// config.Validate already rejected anything else
	return nil, nil
}

// startRecorder launches the SQLite writer goroutine when CHART_RECORD
// is enabled. Returns nil when recording is off.
func startRecorder(ctx context.Context, slg *slog.Logger, cfg *config.Config) chan<- history.Record {
	if os.Getenv("CHART_RECORD") != "true" {
		return nil
	}
	os.MkdirAll("data", 0o755)
	w, err := history.NewWriter(history.WriterConfig{DBPath: cfg.SQLitePath})
	if err != nil {
		slg.Warn("history writer init failed, recording disabled", slog.String("err", err.Error()))
		return nil
	}
	recordCh := make(chan history.Record, 1024)
	go func() {
		defer w.Close()
		w.Run(ctx, recordCh)
	}()
	slg.Info("recording candles", slog.String("path", cfg.SQLitePath))
	return recordCh
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
