// Package technical computes the price trend overlays shown next to the
// revenue and divergence figures in a stock's detail view.
package technical

import "github.com/seenimoa/stockpicker/pkg/models"

// Trend places the latest close against its long moving averages.
// Averages that need more history than is available are zero.
type Trend struct {
	LastClose   float64 `json:"last_close"`
	SMA50       float64 `json:"sma_50,omitempty"`
	SMA200      float64 `json:"sma_200,omitempty"`
	RSI14       float64 `json:"rsi_14,omitempty"`
	AboveSMA200 bool    `json:"above_sma_200"`
	GoldenCross bool    `json:"golden_cross"` // SMA50 above SMA200
}

// Summarize builds the Trend for a daily candle series in date order.
func Summarize(candles []models.OHLCV) Trend {
	if len(candles) == 0 {
		return Trend{}
	}
	closes := closesOf(candles)
	t := Trend{
		LastClose: closes[len(closes)-1],
		SMA50:     latest(SMA(closes, 50)),
		SMA200:    latest(SMA(closes, 200)),
		RSI14:     latest(RSI(closes, 14)),
	}
	t.AboveSMA200 = t.SMA200 > 0 && t.LastClose > t.SMA200
	t.GoldenCross = t.SMA50 > 0 && t.SMA200 > 0 && t.SMA50 > t.SMA200
	return t
}

// SMA is the simple moving average over period values. Entries before the
// first full window are zero; nil means the series is too short.
func SMA(data []float64, period int) []float64 {
	n := len(data)
	if period <= 0 || n < period {
		return nil
	}
	out := make([]float64, n)
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// RSI is Wilder's relative strength index (0-100) over period changes.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	if period <= 0 || n < period+1 {
		return nil
	}

	out := make([]float64, n)
	var gain, loss float64
	for i := 1; i <= period; i++ {
		g, l := split(closes[i] - closes[i-1])
		gain += g
		loss += l
	}
	gain /= float64(period)
	loss /= float64(period)
	out[period] = rsiValue(gain, loss)

	for i := period + 1; i < n; i++ {
		g, l := split(closes[i] - closes[i-1])
		gain = (gain*float64(period-1) + g) / float64(period)
		loss = (loss*float64(period-1) + l) / float64(period)
		out[i] = rsiValue(gain, loss)
	}
	return out
}

func split(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func rsiValue(gain, loss float64) float64 {
	if loss == 0 {
		return 100
	}
	return 100 - 100/(1+gain/loss)
}

func closesOf(candles []models.OHLCV) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

func latest(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}
