package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/rustyeddy/candletrader/market"
)

// Binance is an Exchange backed by Binance's public klines endpoint. It
// needs no API key for candle history, so it is constructed with a bare
// client and nothing else.
type Binance struct {
	client *binance.Client
}

// NewBinance returns a Binance exchange client hitting the public REST API.
func NewBinance() *Binance {
	return &Binance{client: binance.NewClient("", "")}
}

var minuteIntervals = map[int32]string{
	1: "1m", 3: "3m", 5: "5m", 15: "15m", 30: "30m",
	60: "1h", 120: "2h", 240: "4h", 360: "6h", 480: "8h", 720: "12h",
	1440: "1d",
}

func intervalFor(minutes int32) (string, error) {
	iv, ok := minuteIntervals[minutes]
	if !ok {
		return "", fmt.Errorf("exchange: binance has no native interval for %d minutes", minutes)
	}
	return iv, nil
}

// Candles fetches bars for symbol at the given minutes granularity in
// [start,end], ordered by open_time.
func (b *Binance) Candles(ctx context.Context, symbol string, minutes int32, start, end time.Time, limit int) ([]market.Candle, error) {
	iv, err := intervalFor(minutes)
	if err != nil {
		return nil, err
	}
	start, end = NormalizeRange(start, end)
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	klines, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(iv).
		StartTime(start.UnixMilli()).
		EndTime(end.UnixMilli()).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("exchange: binance klines %s/%dm: %w", symbol, minutes, err)
	}

	out := make([]market.Candle, 0, len(klines))
	for _, k := range klines {
		o, err := strconv.ParseFloat(k.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("exchange: parse open: %w", err)
		}
		h, err := strconv.ParseFloat(k.High, 64)
		if err != nil {
			return nil, fmt.Errorf("exchange: parse high: %w", err)
		}
		l, err := strconv.ParseFloat(k.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("exchange: parse low: %w", err)
		}
		c, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("exchange: parse close: %w", err)
		}
		v, err := strconv.ParseFloat(k.Volume, 64)
		if err != nil {
			return nil, fmt.Errorf("exchange: parse volume: %w", err)
		}
		openTime := time.UnixMilli(k.OpenTime).UTC()
		out = append(out, market.NewCandle(symbol, minutes, openTime, o, h, l, c, v))
	}
	return out, nil
}
