package reagent

import (
	"strings"
	"sync"
)

// ExecutionStats contains counters and gauges for one run. All library keys are prefixed
// with "reagent:" (see stats_keys.go).
//
// Counters only go up. Gauges can go up, down, or be reset; they hold values such as
// consecutive error streaks.
//
// Limit checking is triggered automatically whenever a value changes: the owning
// [ExecutionContext] compares every configured [Limit] against the new values.
//
// All methods are safe for concurrent use so hooks may read stats while a run is in
// progress.
type ExecutionStats struct {
	mu       sync.RWMutex
	counters map[StatKey]int64
	gauges   map[StatKey]float64
	onChange func()
}

// NewExecutionStats creates standalone stats without limit checking.
func NewExecutionStats() *ExecutionStats {
	return &ExecutionStats{
		counters: make(map[StatKey]int64),
		gauges:   make(map[StatKey]float64),
	}
}

// IncrCounter increments a counter by delta, creating it if needed.
//
// Panics if delta is negative. Protected keys (e.g., [KeyIterations]) are silently ignored.
func (s *ExecutionStats) IncrCounter(key StatKey, delta int64) {
	if delta < 0 {
		panic("reagent: IncrCounter called with negative delta")
	}
	if isProtectedKey(key) {
		return
	}
	s.incrCounterDirect(key, delta)
}

// incrCounterDirect skips the protected-key check. Used by the framework itself.
func (s *ExecutionStats) incrCounterDirect(key StatKey, delta int64) {
	s.mu.Lock()
	s.counters[key] += delta
	s.mu.Unlock()
	s.changed()
}

// GetCounter returns the current value of a counter, or 0 if not set.
func (s *ExecutionStats) GetCounter(key StatKey) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[key]
}

// IncrGauge adds delta (positive or negative) to a gauge.
func (s *ExecutionStats) IncrGauge(key StatKey, delta float64) {
	s.mu.Lock()
	s.gauges[key] += delta
	s.mu.Unlock()
	s.changed()
}

// SetGauge sets a gauge to value.
func (s *ExecutionStats) SetGauge(key StatKey, value float64) {
	s.mu.Lock()
	s.gauges[key] = value
	s.mu.Unlock()
	s.changed()
}

// GetGauge returns the current value of a gauge, or 0 if not set.
func (s *ExecutionStats) GetGauge(key StatKey) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gauges[key]
}

// ResetGauge sets a gauge to 0. Resetting never triggers limit checks.
func (s *ExecutionStats) ResetGauge(key StatKey) {
	s.mu.Lock()
	s.gauges[key] = 0
	s.mu.Unlock()
}

// Counters returns a copy of all counters keyed by name.
func (s *ExecutionStats) Counters() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		out[string(k)] = v
	}
	return out
}

// Gauges returns a copy of all gauges keyed by name.
func (s *ExecutionStats) Gauges() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.gauges))
	for k, v := range s.gauges {
		out[string(k)] = v
	}
	return out
}

// GetIterations returns the number of iterations started so far.
func (s *ExecutionStats) GetIterations() int64 {
	return s.GetCounter(KeyIterations)
}

// GetToolCallCount returns the number of tool invocations, including failed ones.
func (s *ExecutionStats) GetToolCallCount() int64 {
	return s.GetCounter(KeyToolCalls)
}

// GetTotalInputTokens returns input tokens reported by the model.
func (s *ExecutionStats) GetTotalInputTokens() int64 {
	return s.GetCounter(KeyInputTokens)
}

// GetTotalOutputTokens returns output tokens reported by the model.
func (s *ExecutionStats) GetTotalOutputTokens() int64 {
	return s.GetCounter(KeyOutputTokens)
}

// valuesMatching returns every counter and gauge matched by the limit.
func (s *ExecutionStats) valuesMatching(l Limit) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []float64
	switch l.Type {
	case LimitKeyPrefix:
		prefix := string(l.Key)
		for k, v := range s.counters {
			if strings.HasPrefix(string(k), prefix) {
				out = append(out, float64(v))
			}
		}
		for k, v := range s.gauges {
			if strings.HasPrefix(string(k), prefix) {
				out = append(out, v)
			}
		}
	default:
		if v, ok := s.counters[l.Key]; ok {
			out = append(out, float64(v))
		}
		if v, ok := s.gauges[l.Key]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *ExecutionStats) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
