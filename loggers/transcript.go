package loggers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rickchristie/reagent"
	"gopkg.in/yaml.v3"
)

// Transcript is the YAML form of a finished run. Multi-line turn text is written as
// block scalars so transcripts read like the conversation did.
type Transcript struct {
	Name              string             `yaml:"name"`
	TerminationReason string             `yaml:"termination_reason"`
	Answer            string             `yaml:"answer,omitempty"`
	Error             string             `yaml:"error,omitempty"`
	Iterations        int                `yaml:"iterations"`
	Duration          string             `yaml:"duration"`
	Counters          map[string]int64   `yaml:"counters,omitempty"`
	Gauges            map[string]float64 `yaml:"gauges,omitempty"`
	Turns             []TranscriptTurn   `yaml:"turns"`
}

// TranscriptTurn is one conversation turn.
type TranscriptTurn struct {
	Role string `yaml:"role"`
	Text string `yaml:"text"`
}

// NewTranscript captures the conversation, outcome and stats of execCtx.
func NewTranscript(execCtx *reagent.ExecutionContext) Transcript {
	t := Transcript{
		Name:              execCtx.Name(),
		TerminationReason: string(execCtx.TerminationReason()),
		Answer:            execCtx.FinalAnswer(),
		Iterations:        execCtx.Iteration(),
		Duration:          execCtx.Duration().String(),
		Counters:          execCtx.Stats().Counters(),
		Gauges:            execCtx.Stats().Gauges(),
	}
	if err := execCtx.Error(); err != nil {
		t.Error = err.Error()
	}
	for _, turn := range execCtx.Conversation().Render() {
		t.Turns = append(t.Turns, TranscriptTurn{Role: string(turn.Role), Text: turn.Text})
	}
	return t
}

// WriteTranscript writes execCtx's transcript to w as YAML.
func WriteTranscript(w io.Writer, execCtx *reagent.ExecutionContext) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewTranscript(execCtx)); err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	return enc.Close()
}

// WriteTranscriptFile writes the transcript to path, creating parent directories.
func WriteTranscriptFile(path string, execCtx *reagent.ExecutionContext) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteTranscript(f, execCtx)
}
