package timingengine

import (
	"time"

	utilclock "k8s.io/utils/clock"
)

// Clock is the timer facility the timing decorators schedule against. It is
// the subset of k8s.io/utils/clock.Clock the decorators need, so
// clock.RealClock satisfies it directly and tests can substitute a manual
// clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) utilclock.Timer
}

// compile-time check: the production default satisfies Clock.
var _ Clock = utilclock.RealClock{}
