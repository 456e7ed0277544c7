package technical

import (
	"math"
	"testing"

	"github.com/seenimoa/stockpicker/pkg/models"
)

func candles(closes ...float64) []models.OHLCV {
	out := make([]models.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = models.OHLCV{Open: c, High: c, Low: c, Close: c}
	}
	return out
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	want := []float64{0, 0, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("SMA[%d]: got %v, want %v", i, got[i], want[i])
		}
	}

	if SMA([]float64{1, 2}, 3) != nil {
		t.Error("short series should return nil")
	}
	if SMA([]float64{1, 2}, 0) != nil {
		t.Error("zero period should return nil")
	}
}

func TestRSI(t *testing.T) {
	up := RSI(ramp(30, 100, 1), 14)
	if got := up[len(up)-1]; got != 100 {
		t.Errorf("steady rise: got %v, want 100", got)
	}

	down := RSI(ramp(30, 100, -1), 14)
	if got := down[len(down)-1]; got != 0 {
		t.Errorf("steady fall: got %v, want 0", got)
	}

	alt := make([]float64, 31)
	for i := range alt {
		alt[i] = 100
		if i%2 == 1 {
			alt[i] = 101
		}
	}
	r := RSI(alt, 14)
	if got := r[len(r)-1]; got < 40 || got > 60 {
		t.Errorf("oscillating: got %v, want near 50", got)
	}

	if RSI(ramp(10, 1, 1), 14) != nil {
		t.Error("short series should return nil")
	}
}

func TestSummarize(t *testing.T) {
	tr := Summarize(candles(ramp(250, 100, 1)...))
	if tr.LastClose != 349 {
		t.Errorf("LastClose: got %v", tr.LastClose)
	}
	// Mean of the last 200 closes: 150..349.
	if math.Abs(tr.SMA200-249.5) > 1e-9 {
		t.Errorf("SMA200: got %v, want 249.5", tr.SMA200)
	}
	if math.Abs(tr.SMA50-324.5) > 1e-9 {
		t.Errorf("SMA50: got %v, want 324.5", tr.SMA50)
	}
	if !tr.AboveSMA200 || !tr.GoldenCross {
		t.Errorf("expected uptrend flags, got %+v", tr)
	}
}

func TestSummarize_ShortHistory(t *testing.T) {
	tr := Summarize(candles(10, 11, 12))
	if tr.LastClose != 12 || tr.SMA50 != 0 || tr.SMA200 != 0 || tr.RSI14 != 0 {
		t.Errorf("got %+v", tr)
	}
	if tr.AboveSMA200 || tr.GoldenCross {
		t.Error("flags need a full 200-day window")
	}

	if got := Summarize(nil); got != (Trend{}) {
		t.Errorf("empty: got %+v", got)
	}
}
