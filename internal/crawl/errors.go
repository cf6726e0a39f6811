package crawl

import (
	"errors"
	"fmt"
)

// ErrDetailAnomaly marks a channel-detail response that reported a result
// count other than one for a single-id lookup. The channel is skipped and
// the crawl continues.
var ErrDetailAnomaly = errors.New("channel detail returned unexpected result count")

// FatalError marks a failure that must stop the crawl after alerting:
// exhausted retries, a response kind contract violation, or a failed
// store commit. The orchestrator is the only place that acts on it.
type FatalError struct {
	Reason string
	Err    error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatalf builds a FatalError from a format string.
func Fatalf(format string, args ...any) error {
	return &FatalError{Reason: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether err carries a FatalError anywhere in its chain.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
