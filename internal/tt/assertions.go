package tt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rickchristie/reagent"
)

// FormatTurns renders turns one block per turn, for diffs and failure messages.
func FormatTurns(turns []reagent.Turn) string {
	var sb strings.Builder
	for i, t := range turns {
		fmt.Fprintf(&sb, "--- [%d] %s\n%s\n", i, t.Role, t.Text)
	}
	return sb.String()
}

// AssertTurns fails the test with a unified diff when the turn sequences differ.
func AssertTurns(t *testing.T, expected, actual []reagent.Turn) bool {
	t.Helper()
	want, got := FormatTurns(expected), FormatTurns(actual)
	if want == got {
		return true
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	t.Errorf("turns differ (%d expected, %d actual):\n%s", len(expected), len(actual), diff)
	return false
}

// Roles returns the role of each turn.
func Roles(turns []reagent.Turn) []reagent.Role {
	roles := make([]reagent.Role, len(turns))
	for i, t := range turns {
		roles[i] = t.Role
	}
	return roles
}
