package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rickchristie/reagent"
	"github.com/rickchristie/reagent/models"
	"github.com/rickchristie/reagent/tools"
)

const demoModelName = "offline-demo"

// demoScenario is a scripted conversation picked by keywords in the question.
type demoScenario struct {
	name     string
	question string
	keywords []string
	replies  []string
}

var demoScenarios = []demoScenario{
	{
		name:     "pen",
		question: "How much does a pen cost?",
		keywords: []string{"pen"},
		replies: []string{
			"Thought: I should look up the pen cost using get_cost\nAction: get_cost: pen\nPAUSE",
			"Answer: A pen costs $5",
		},
	},
	{
		name:     "einstein",
		question: "What is the year Albert Einstein was born, multiplied by 5?",
		keywords: []string{"einstein"},
		replies: []string{
			"Thought: I should find the year Albert Einstein was born using wikipedia\n" +
				"Action: wikipedia: Albert Einstein birth year\nPAUSE",
			"Thought: Now I can use the calculator to multiply 1879 by 5.\n" +
				"Action: calculate: 1879 * 5\nPAUSE",
			"Answer: The year Albert Einstein was born is 1879. When multiplied by 5, the result is 9395.",
		},
	},
	{
		name:     "correction",
		question: "What is 4 * 7 / 3?",
		keywords: []string{"4 * 7"},
		replies: []string{
			"I think it is a little over nine.",
			"Thought: I should use the calculator.\nAction: calculate: 4 * 7 / 3\nPAUSE",
			"Answer: 4 * 7 / 3 is 9.333333333333334",
		},
	},
}

// demoModel replays the scenario matching the conversation's question. The reply is
// chosen by the number of model turns so far, so one demoModel serves any number of
// runs.
type demoModel struct {
	scenarios []demoScenario
	fallback  []string
}

func newDemoModel(scenarios []demoScenario) *demoModel {
	questions := make([]string, len(scenarios))
	for i, s := range scenarios {
		questions[i] = fmt.Sprintf("%q", s.question)
	}
	return &demoModel{
		scenarios: scenarios,
		fallback: []string{
			"Answer: I am running offline and only know these questions: " +
				strings.Join(questions, ", "),
		},
	}
}

func (m *demoModel) replies(question string) []string {
	q := strings.ToLower(question)
	for _, s := range m.scenarios {
		matched := true
		for _, kw := range s.keywords {
			if !strings.Contains(q, kw) {
				matched = false
				break
			}
		}
		if matched {
			return s.replies
		}
	}
	return m.fallback
}

func (m *demoModel) GenerateTurn(
	ctx context.Context,
	execCtx *reagent.ExecutionContext,
	turns []reagent.Turn,
) (*reagent.ModelResponse, error) {
	question, step := "", 0
	for _, t := range turns {
		switch t.Role {
		case reagent.RoleUser:
			if question == "" {
				question = t.Text
			}
		case reagent.RoleModel:
			step++
		}
	}

	replies := m.replies(question)
	step = min(step, len(replies))
	return models.NewScriptedModel(replies[step:]...).
		WithModelName(demoModelName).
		GenerateTurn(ctx, execCtx, turns)
}

var _ reagent.Model = (*demoModel)(nil)

// offlineTools returns the default catalog with the network tools replaced by canned
// answers.
func offlineTools(clock reagent.Clock) []reagent.Tool {
	wiki := tools.NewWikipedia()
	weather := tools.NewWeather()

	return []reagent.Tool{
		tools.NewCalculate(),
		tools.NewGetCost(),
		reagent.NewToolFunc(wiki.Name(), wiki.Description(),
			func(_ context.Context, arg string) (string, error) {
				if strings.Contains(strings.ToLower(arg), "einstein") {
					return "Albert Einstein: Albert Einstein (14 March 1879 - 18 April 1955) " +
						"was a German-born theoretical physicist", nil
				}
				return tools.NoResult, nil
			}).WithExample(wiki.Example()),
		tools.NewGetTime(clock),
		reagent.NewToolFunc(weather.Name(), weather.Description(),
			func(_ context.Context, arg string) (string, error) {
				return fmt.Sprintf("The current temperature in %s is 21.5°C.", strings.TrimSpace(arg)), nil
			}).WithExample(weather.Example()),
	}
}
