package extract

import (
	"fmt"
	"log/slog"
)

// strategy is one step in an ordered fallback chain.
type strategy[T any] struct {
	name string
	run  func() (T, error)
}

// runChain tries each strategy in order and returns the first success along
// with the winning strategy's name. Failures are logged per attempt; only
// when every strategy is exhausted does the last error propagate.
func runChain[T any](logger *slog.Logger, operation string, strategies []strategy[T]) (T, string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var zero T
	var lastErr error
	for _, s := range strategies {
		v, err := s.run()
		if err == nil {
			return v, s.name, nil
		}
		lastErr = err
		logger.Warn(operation+".strategy_failed", "strategy", s.name, "error", err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%s: no strategies configured", operation)
	}
	return zero, "", fmt.Errorf("%s: all strategies exhausted: %w", operation, lastErr)
}
