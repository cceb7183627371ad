// Package progress carries the percent-complete side channel of a
// factorization run.
package progress

import (
	"math/big"
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// Event is emitted once per whole percent of the search range consumed.
type Event struct {
	Percent  int               // 1..100
	Consumed *big.Int          // candidates scanned so far
	Total    *big.Int          // candidates in the whole range
	Span     timespan.TimeSpan // from the start of the run until now
}

// Elapsed returns the duration covered by Span.
func (e Event) Elapsed() time.Duration {
	return e.Span.Duration()
}

// Reporter observes progress events. It is called from a single goroutine,
// in increasing Percent order.
type Reporter func(Event)

// Tracker converts consumed counts into percent events.
type Tracker struct {
	total    *big.Int
	started  time.Time
	reporter Reporter
	emitted  int
	now      func() time.Time
}

// NewTracker returns a Tracker for a range of total candidates. A nil
// reporter makes every call a no-op.
func NewTracker(total *big.Int, started time.Time, reporter Reporter) *Tracker {
	return &Tracker{
		total:    new(big.Int).Set(total),
		started:  started,
		reporter: reporter,
		now:      time.Now,
	}
}

// Advance emits one event for every whole percent reached since the last
// call. consumed is cumulative.
func (t *Tracker) Advance(consumed *big.Int) {
	if t.reporter == nil || t.total.Sign() <= 0 {
		return
	}

	pct := new(big.Int).Mul(consumed, big.NewInt(100))
	pct.Quo(pct, t.total)
	reached := 100
	if pct.IsInt64() && pct.Int64() < 100 {
		reached = int(pct.Int64())
	}
	if reached <= t.emitted {
		return
	}

	span := timespan.BetweenTimes(t.started, t.now())
	for t.emitted < reached {
		t.emitted++
		t.reporter(Event{
			Percent:  t.emitted,
			Consumed: new(big.Int).Set(consumed),
			Total:    new(big.Int).Set(t.total),
			Span:     span,
		})
	}
}

// Emitted returns the last percent reported.
func (t *Tracker) Emitted() int {
	return t.emitted
}
