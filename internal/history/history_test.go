package history

import (
	"path/filepath"
	"testing"

	"candlechart/internal/model"
)

func openPair(t *testing.T) (*Writer, *Reader) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.db")
	w, err := NewWriter(WriterConfig{DBPath: path})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return w, r
}

func TestWriteReadRoundTrip(t *testing.T) {
	w, r := openPair(t)

	in := []model.Candle{
		{TS: 1000, Open: 10, High: 12, Low: 9, Close: 11},
		model.Candle{TS: 2000, Open: 11, High: 13, Low: 10, Close: 12}.WithVolume(500),
		{TS: 3000, Open: 12, High: 14, Low: 11, Close: 13},
	}
	if err := w.WriteCandles("BTCUSD", in); err != nil {
		t.Fatalf("WriteCandles: %v", err)
	}

	out, err := r.ReadCandles("BTCUSD", 0)
	if err != nil {
		t.Fatalf("ReadCandles: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d candles, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].TS <= out[i-1].TS {
			t.Errorf("candles not ascending at %d: %d <= %d", i, out[i].TS, out[i-1].TS)
		}
	}
	if out[0].Volume != nil {
		t.Errorf("candle 0 should have no volume, got %v", *out[0].Volume)
	}
	if out[1].Volume == nil || *out[1].Volume != 500 {
		t.Errorf("candle 1 volume = %v, want 500", out[1].Volume)
	}
	if out[2].Close != 13 {
		t.Errorf("candle 2 close = %v, want 13", out[2].Close)
	}
}

func TestReadCandlesAfterTS(t *testing.T) {
	w, r := openPair(t)
	in := []model.Candle{
		{TS: 1000, Open: 1, High: 1, Low: 1, Close: 1},
		{TS: 2000, Open: 2, High: 2, Low: 2, Close: 2},
		{TS: 3000, Open: 3, High: 3, Low: 3, Close: 3},
	}
	if err := w.WriteCandles("ETHUSD", in); err != nil {
		t.Fatalf("WriteCandles: %v", err)
	}

	out, err := r.ReadCandles("ETHUSD", 1000)
	if err != nil {
		t.Fatalf("ReadCandles: %v", err)
	}
	if len(out) != 2 || out[0].TS != 2000 {
		t.Fatalf("afterTS filter wrong: got %d candles, first ts %d", len(out), out[0].TS)
	}
}

func TestReplaceFormingCandle(t *testing.T) {
	w, r := openPair(t)
	first := []model.Candle{{TS: 1000, Open: 10, High: 11, Low: 9, Close: 10.5}}
	if err := w.WriteCandles("BTCUSD", first); err != nil {
		t.Fatalf("WriteCandles: %v", err)
	}
	// Same timestamp rewritten with the completed bar.
	second := []model.Candle{{TS: 1000, Open: 10, High: 12, Low: 9, Close: 11.5}}
	if err := w.WriteCandles("BTCUSD", second); err != nil {
		t.Fatalf("WriteCandles: %v", err)
	}

	out, err := r.ReadCandles("BTCUSD", 0)
	if err != nil {
		t.Fatalf("ReadCandles: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d candles, want 1 after replace", len(out))
	}
	if out[0].Close != 11.5 || out[0].High != 12 {
		t.Errorf("replaced candle = %+v, want close 11.5 high 12", out[0])
	}
}

func TestSymbolsAndLastTimestamp(t *testing.T) {
	w, r := openPair(t)
	w.WriteCandles("BTCUSD", []model.Candle{{TS: 1000, Open: 1, High: 1, Low: 1, Close: 1}})
	w.WriteCandles("ETHUSD", []model.Candle{{TS: 5000, Open: 2, High: 2, Low: 2, Close: 2}})

	syms, err := r.Symbols()
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	if len(syms) != 2 || syms[0] != "BTCUSD" || syms[1] != "ETHUSD" {
		t.Errorf("Symbols = %v, want [BTCUSD ETHUSD]", syms)
	}

	ts, err := w.LastTimestamp("ETHUSD")
	if err != nil {
		t.Fatalf("LastTimestamp: %v", err)
	}
	if ts != 5000 {
		t.Errorf("LastTimestamp = %d, want 5000", ts)
	}
	ts, err = w.LastTimestamp("NOPE")
	if err != nil {
		t.Fatalf("LastTimestamp empty: %v", err)
	}
	if ts != 0 {
		t.Errorf("LastTimestamp for unknown symbol = %d, want 0", ts)
	}
}
