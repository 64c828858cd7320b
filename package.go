// Package reagent implements a bounded ReAct (Reason + Act) loop for language models.
//
// The model is asked to think out loud and either request a tool call or give a final
// answer, using plain-text markers:
//
//	Thought: I should look up the pen cost using get_cost
//	Action: get_cost: pen
//	PAUSE
//
// The loop runs the tool, appends its output to the conversation as an observation, and
// asks the model again until it replies with "Answer: ...", an error ends the run, or the
// iteration limit is reached.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "os"
//
//	    "github.com/rickchristie/reagent/agents/react"
//	    "github.com/rickchristie/reagent/executor"
//	    "github.com/rickchristie/reagent/models"
//	    "github.com/rickchristie/reagent/toolchain"
//	    "github.com/rickchristie/reagent/tools"
//	)
//
//	func main() {
//	    // 1. Create a model
//	    model, err := models.NewOpenAI(models.OpenAIConfig{APIKey: os.Getenv("OPENAI_API_KEY")})
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    // 2. Register tools
//	    registry, err := toolchain.NewRegistry(tools.NewCalculate(), tools.NewGetCost())
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    // 3. Build the agent and run a question
//	    agent := react.NewAgent(model, registry)
//	    answer, err := executor.New(agent, executor.DefaultConfig()).
//	        Run(context.Background(), "How much does a pen cost?")
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(answer) // A pen costs $5
//	}
//
// # Conversation
//
// A [Conversation] is the ordered, append-only list of [Turn]s of one run: the user's
// question, each model turn, and each observation. The system prompt is not stored; the
// agent renders it for every model call and prepends it to [Conversation.Render].
//
// # Model
//
// A [Model] turns the rendered turns into the next model turn. The models package adapts
// any langchaingo llms.Model and provides OpenAI, GitHub Models and scripted
// implementations. Any failure is reported as [ErrModelUnavailable]; the loop does not
// retry. Wrap the model with policy/retry for host-side retries.
//
// # TextFormat
//
// A [TextFormat] parses a model turn into exactly one [Outcome]:
//
//   - [FinalAnswer] when the turn contains an Answer marker
//   - [ActionRequest] when it contains an Action line followed by PAUSE
//   - [Unrecognized] otherwise
//
// Unrecognized turns are not errors. The loop appends a corrective observation and asks
// again, so parse misses are bounded by the iteration limit. See the format package.
//
// # Tool & ToolChain
//
// A [Tool] is a named text-to-text function. [NewToolFunc] wraps a plain function:
//
//	getCost := reagent.NewToolFunc("get_cost", "Returns the cost of an item",
//	    func(ctx context.Context, item string) (string, error) {
//	        return "A pen costs $5", nil
//	    }).WithExample("pen")
//
// A [ToolChain] looks tools up by name and describes them for the system prompt. Unknown
// tools and tool failures become "Error: ..." observations rather than ending the run.
//
// # Stats and Limits
//
// Every run tracks counters such as [KeyIterations], [KeyModelCalls] and [KeyToolCalls].
// A [Limit] fails the run as soon as a stat exceeds its MaxValue. The iteration counter is
// incremented before each model call, so [MaxIterations](3) allows exactly three model
// calls. [DefaultLimits] applies [DefaultMaxIterations].
//
// # Hooks & Events
//
// Every step publishes an event through the [ExecutionContext]. Hooks implement any of the
// *Hook interfaces in this package and are registered on the executor:
//
//	exec := executor.New(agent, executor.DefaultConfig()).
//	    RegisterHook(loggers.NewSlogHook(logger))
//
// # Writing Your Own Loop
//
// Implement [AgentLoop] to drive the state machine differently:
//
//	type MyLoop struct{}
//
//	func (l *MyLoop) Next(ctx context.Context, execCtx *reagent.ExecutionContext) (*reagent.AgentLoopResult, error) {
//	    // call the model, parse, invoke tools, append turns
//	    return &reagent.AgentLoopResult{Action: reagent.LATerminate, Answer: "done"}, nil
//	}
//
// The executor calls Next() repeatedly until LATerminate is returned or the run fails.
// See the agents/react package for the reference implementation.
package reagent
