// Package react implements the ReAct (Reasoning and Acting) agent loop.
//
// # Overview
//
// The model alternates between reasoning and requesting tool actions, observing each
// tool result before deciding what to do next:
//
//	Thought: I should look up the pen cost using get_cost
//	Action: get_cost: pen
//	PAUSE
//	                                  (loop runs get_cost("pen"))
//	Observation: A pen costs $5
//	Answer: A pen costs $5
//
// # Agent Loop Behavior
//
// Each [Agent.Next] call makes exactly one model call and at most one tool call. The
// model turn is parsed into a closed outcome before anything is dispatched:
//
//   - Answer: the run ends with the answer text.
//   - Action: the named tool runs and its output is appended as an observation turn.
//   - Unrecognized: a corrective observation is appended and the model is asked again.
//
// Unknown tools and failing tools never end the run. Their errors are written into the
// observation as "Error: ..." so the model can correct itself. Parse misses and tool
// errors both consume iterations, so the executor's iteration limit bounds them.
//
// # Example Usage
//
//	reg, _ := toolchain.NewRegistry(tools.NewGetCost(), tools.NewCalculate())
//	agent := react.NewAgent(model, reg)
//	answer, err := executor.New(agent, executor.DefaultConfig()).
//	    Run(ctx, "How much does a pen cost?")
package react
