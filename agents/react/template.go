package react

import (
	"bytes"
	_ "embed"
	"text/template"
	"time"
)

//go:embed system.tmpl
var systemTemplateContent string

// SystemPromptData contains the data passed to the system prompt template.
type SystemPromptData struct {
	// BehaviorAndContext contains behavior instructions provided by the user.
	BehaviorAndContext string

	// OutputPrompt explains the marker grammar (from the TextFormat).
	OutputPrompt string

	// ToolsPrompt lists the available actions (from the ToolChain).
	ToolsPrompt string

	// Examples contains worked example sessions. Empty to omit them.
	Examples string

	// Now is the current time from the agent's clock, e.g. {{.Now.Format "2006-01-02"}}.
	// Zero when the agent has no clock.
	Now time.Time
}

// DefaultSystemTemplate is the default system prompt template.
// The template file is located at agents/react/system.tmpl.
var DefaultSystemTemplate = template.Must(
	template.New("react_system").Parse(systemTemplateContent),
)

// DefaultExamples are the worked sessions shown to the model. They use the default markers
// of format.Lines; replace them with WithExamples when using other markers.
const DefaultExamples = `Always look things up on Wikipedia if you have the opportunity to do so.

Example session #1:
Question: How much does a pen cost?
Thought: I should look up the pen cost using get_cost
Action: get_cost: pen
PAUSE
Observation: A pen costs $5
You then output:
Answer: A pen costs $5

Example session #2:
Question: What year was Albert Einstein born? What is that year number multiplied by 5?
Thought: I should find the year using wikipedia
Action: wikipedia: Albert Einstein birth year
PAUSE
Observation: March 14, 1879
Thought: Now I can use the calculator to multiply 1879 by 5.
Action: calculate: 1879 * 5
PAUSE
Observation: 9395
You then output:
Answer: The year Albert Einstein was born is 1879. When multiplied by 5, the result is 9395.`

// ExecuteTemplate executes a template with the given data and returns the result.
func ExecuteTemplate(tmpl *template.Template, data SystemPromptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
