package reagent

// LimitType specifies how to match keys for limit checking.
type LimitType string

const (
	// LimitExactKey matches an exact key, such as KeyIterations.
	LimitExactKey LimitType = "exact"

	// LimitKeyPrefix matches any key with the given prefix, such as KeyToolCallsFor.
	LimitKeyPrefix LimitType = "prefix"
)

// DefaultMaxIterations is the iteration limit applied by [DefaultLimits].
const DefaultMaxIterations = 10

// Limit defines a threshold that ends a run.
//
// # How Limits Work
//
// Limits are checked whenever stats change. When a value exceeds MaxValue the run is
// marked as exceeded and the executor stops before the next model call, failing with a
// [*LimitExceededError].
//
// The iteration counter is incremented right before each model call, so with
//
//	{Type: LimitExactKey, Key: KeyIterations, MaxValue: 3}
//
// the model is called exactly three times; the fourth increment exceeds the limit and the
// run fails with [ErrIterationLimitExceeded] without calling the model again.
//
// # Prefix Limits
//
// Match any key starting with the prefix:
//
//	// Stop if any single tool is called more than 5 times
//	{Type: LimitKeyPrefix, Key: KeyToolCallsFor, MaxValue: 5}
type Limit struct {
	// Type specifies how to match keys (exact or prefix).
	Type LimitType

	// Key is the exact key or prefix to match.
	Key StatKey

	// MaxValue is the threshold. The run ends when a value exceeds it (value > MaxValue).
	MaxValue float64
}

// MaxIterations returns the iteration limit for n model calls.
func MaxIterations(n int) Limit {
	return Limit{Type: LimitExactKey, Key: KeyIterations, MaxValue: float64(n)}
}

// DefaultLimits returns the limits applied when none are configured: at most
// [DefaultMaxIterations] model calls per run.
//
// Parse misses and tool errors are not limited separately by default; every retry they
// cause consumes an iteration, so the iteration limit bounds them. To add limits without
// replacing the default, append to DefaultLimits():
//
//	limits := append(reagent.DefaultLimits(),
//	    reagent.Limit{Type: reagent.LimitExactKey, Key: reagent.KeyParseMissConsecutive, MaxValue: 2},
//	)
func DefaultLimits() []Limit {
	return []Limit{
		MaxIterations(DefaultMaxIterations),
	}
}
