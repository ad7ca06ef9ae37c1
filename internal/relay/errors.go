package relay

import (
	"errors"
	"fmt"
)

// ErrNotJSON marks a 2xx body that is not a JSON object or array, typically a
// relay's HTML error page.
var ErrNotJSON = errors.New("response is not a JSON object or array")

// ErrNoStrategies is reported when a router has nothing to try.
var ErrNoStrategies = errors.New("no strategies configured")

// StrategyError records why one candidate failed.
type StrategyError struct {
	Strategy string
	URL      string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// AllStrategiesFailedError is returned when every strategy failed for one
// target. Attempts are in completion order; Last is the final failure.
type AllStrategiesFailedError struct {
	Target   string
	Attempts []*StrategyError
	Last     error
}

func (e *AllStrategiesFailedError) Error() string {
	return fmt.Sprintf("all %d strategies failed for %s: %v", len(e.Attempts), e.Target, e.Last)
}

func (e *AllStrategiesFailedError) Unwrap() error {
	return e.Last
}

func newAllFailed(target string, attempts []*StrategyError) *AllStrategiesFailedError {
	err := &AllStrategiesFailedError{Target: target, Attempts: attempts, Last: ErrNoStrategies}
	if n := len(attempts); n > 0 {
		err.Last = attempts[n-1]
	}
	return err
}
