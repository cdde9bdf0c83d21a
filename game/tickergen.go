package game

import "time"

// TickerFactory abstracts time sources so tests can drive the countdown
// manually. Both methods return the channel plus a release func that must be
// called when the consumer is done with it.
type TickerFactory interface {
	Ticker(d time.Duration) (<-chan time.Time, func())
	After(d time.Duration) (<-chan time.Time, func())
}

type realTickers struct{}

func NewTickerFactory() TickerFactory {
	return realTickers{}
}

func (realTickers) Ticker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

func (realTickers) After(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTimer(d)
	return t.C, func() { t.Stop() }
}
