package retry

import (
	"time"
)

type fn func() error
type shouldRetry func(err error, attempt int) bool

// WrapWithRetry - wraps the given function, retries it while it fails and shouldRetry returns true. Attempts are
// spaced so that no more than rate attempts per second are made.
func WrapWithRetry(f fn, shouldRetry shouldRetry, rate float32) func() error {
	pause := time.Duration(0)
	if rate > 0 {
		pause = time.Duration(float64(time.Second) / float64(rate))
	}

	return func() error {
		attempt := 0

		for {
			err := f()
			if err == nil {
				return nil
			}

			attempt++

			if !shouldRetry(err, attempt) {
				return err
			}

			time.Sleep(pause)
		}
	}
}
