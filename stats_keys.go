package reagent

// StatKey names a counter or gauge in [ExecutionStats].
type StatKey string

// KeyPrefix is the prefix for all library keys.
// Use your own prefix (e.g., "myapp:") for custom metrics to avoid collisions.
const KeyPrefix = "reagent:"

// Iteration tracking.
// This key is protected: IncrCounter on it is silently ignored. Only the executor
// increments it, once per model call.
const KeyIterations StatKey = "reagent:iterations"

// Model call tracking keys.
const (
	KeyModelCalls      StatKey = "reagent:model_calls"
	KeyModelCallErrors StatKey = "reagent:model_call_errors"
	KeyInputTokens     StatKey = "reagent:input_tokens"
	KeyOutputTokens    StatKey = "reagent:output_tokens"
)

// Tool call tracking keys.
const (
	KeyToolCalls            StatKey = "reagent:tool_calls"
	KeyToolCallsFor         StatKey = "reagent:tool_calls:" // + tool name
	KeyToolCallsErrorTotal  StatKey = "reagent:tool_calls_error_total"
	KeyToolCallsErrorFor    StatKey = "reagent:tool_calls_error:" // + tool name
	KeyUnknownToolTotal     StatKey = "reagent:unknown_tool_total"
	KeyToolCallsErrorStreak StatKey = "reagent:tool_calls_error_consecutive"
)

// Parse miss tracking keys (model turns with no recognized action or answer).
const (
	KeyParseMissTotal       StatKey = "reagent:parse_miss_total"
	KeyParseMissConsecutive StatKey = "reagent:parse_miss_consecutive"
)

var protectedKeys = map[StatKey]bool{
	KeyIterations: true,
}

func isProtectedKey(key StatKey) bool {
	return protectedKeys[key]
}
