package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rickchristie/reagent"
)

// Reasons reported in [reagent.Unrecognized]. They are shown to the model in the
// corrective observation, so they are phrased as instructions.
const (
	ReasonEmptyTurn       = "empty response"
	ReasonNoMarker        = "no Action or Answer line found"
	ReasonMissingPause    = "Action line must be followed by a PAUSE line"
	ReasonEmptyAnswer     = "Answer line has no text"
	ReasonMalformedAction = "Action line must look like \"Action: <tool>: <argument>\""
)

var toolNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Markers are the literal line prefixes recognized by [Lines]. Pause is matched as a
// whole line; the others as prefixes.
type Markers struct {
	Thought     string
	Action      string
	Pause       string
	Observation string
	Answer      string
}

// DefaultMarkers returns the standard markers.
func DefaultMarkers() Markers {
	return Markers{
		Thought:     "Thought:",
		Action:      "Action:",
		Pause:       "PAUSE",
		Observation: "Observation:",
		Answer:      "Answer:",
	}
}

// Lines is the line-oriented marker grammar. See the package documentation.
//
// Lines is immutable after construction and safe for concurrent use.
type Lines struct {
	markers Markers
}

// NewLines creates a Lines parser with [DefaultMarkers].
func NewLines() *Lines {
	return &Lines{markers: DefaultMarkers()}
}

// WithMarkers replaces the markers. Empty fields keep their defaults.
// Returns self for chaining.
func (f *Lines) WithMarkers(m Markers) *Lines {
	d := DefaultMarkers()
	if m.Thought == "" {
		m.Thought = d.Thought
	}
	if m.Action == "" {
		m.Action = d.Action
	}
	if m.Pause == "" {
		m.Pause = d.Pause
	}
	if m.Observation == "" {
		m.Observation = d.Observation
	}
	if m.Answer == "" {
		m.Answer = d.Answer
	}
	f.markers = m
	return f
}

// Markers returns the markers in use.
func (f *Lines) Markers() Markers {
	return f.markers
}

// DescribeStructure returns the loop instructions for the system prompt.
func (f *Lines) DescribeStructure() string {
	m := f.markers
	var sb strings.Builder
	fmt.Fprintf(&sb, "You run in a loop of %s, %s, %s, %s.\n",
		trimColon(m.Thought), trimColon(m.Action), m.Pause, trimColon(m.Observation))
	fmt.Fprintf(&sb, "At the end of the loop you output an %s.\n\n", trimColon(m.Answer))
	fmt.Fprintf(&sb, "Use %s to describe your thoughts about the question you have been asked.\n",
		trimColon(m.Thought))
	fmt.Fprintf(&sb, "Use %s to run one of the actions available to you, then return %s.\n",
		trimColon(m.Action), m.Pause)
	fmt.Fprintf(&sb, "%s will be the result of running those actions.\n\n", trimColon(m.Observation))
	sb.WriteString("Write each marker at the start of its own line:\n\n")
	fmt.Fprintf(&sb, "%s <your reasoning>\n", m.Thought)
	fmt.Fprintf(&sb, "%s <action name>: <input>\n", m.Action)
	fmt.Fprintf(&sb, "%s\n\n", m.Pause)
	sb.WriteString("When you know the answer, output:\n\n")
	fmt.Fprintf(&sb, "%s <your final answer>\n", m.Answer)
	return sb.String()
}

// Parse classifies a model turn. It never fails.
func (f *Lines) Parse(text string) reagent.Outcome {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return reagent.Unrecognized{Reason: ReasonEmptyTurn}
	}

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	var (
		found   reagent.Outcome
		problem string
	)
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, f.markers.Answer):
			answer, next := f.collectAnswer(lines, i)
			if answer == "" {
				problem = ReasonEmptyAnswer
			} else {
				found = reagent.FinalAnswer{Text: answer}
			}
			i = next - 1

		case strings.HasPrefix(line, f.markers.Action):
			name, arg, ok := splitAction(strings.TrimPrefix(line, f.markers.Action))
			if !ok {
				problem = ReasonMalformedAction
				continue
			}
			if !f.pauseFollows(lines, i+1) {
				problem = ReasonMissingPause
				continue
			}
			found = reagent.ActionRequest{ToolName: name, Argument: arg}
		}
	}

	if found != nil {
		return found
	}
	if problem == "" {
		problem = ReasonNoMarker
	}
	return reagent.Unrecognized{Reason: problem}
}

// collectAnswer returns the answer starting at lines[start] and the index of the first
// line after it.
func (f *Lines) collectAnswer(lines []string, start int) (string, int) {
	parts := []string{strings.TrimSpace(strings.TrimPrefix(lines[start], f.markers.Answer))}
	i := start + 1
	for ; i < len(lines); i++ {
		if f.isMarker(lines[i]) {
			break
		}
		parts = append(parts, lines[i])
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), i
}

// pauseFollows reports whether the first non-blank line at or after from is the pause marker.
func (f *Lines) pauseFollows(lines []string, from int) bool {
	for i := from; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		return lines[i] == f.markers.Pause
	}
	return false
}

func (f *Lines) isMarker(line string) bool {
	m := f.markers
	return line == m.Pause ||
		strings.HasPrefix(line, m.Thought) ||
		strings.HasPrefix(line, m.Action) ||
		strings.HasPrefix(line, m.Observation) ||
		strings.HasPrefix(line, m.Answer)
}

// splitAction parses "<tool>: <argument>" or "<tool>".
func splitAction(rest string) (name, arg string, ok bool) {
	rest = strings.TrimSpace(rest)
	name, arg, _ = strings.Cut(rest, ":")
	name = strings.TrimSpace(name)
	arg = strings.TrimSpace(arg)
	if !toolNamePattern.MatchString(name) {
		return "", "", false
	}
	return name, arg, true
}

func trimColon(marker string) string {
	return strings.TrimSuffix(marker, ":")
}

// Compile-time check.
var _ reagent.TextFormat = (*Lines)(nil)
