package tools

import (
	"context"
	"strings"

	"github.com/rickchristie/reagent"
)

// GetCostName is the name of the price lookup tool.
const GetCostName = "get_cost"

var prices = []struct {
	item  string
	reply string
}{
	{"pen", "A pen costs $5"},
	{"book", "A book costs $20"},
	{"stapler", "A stapler costs $10"},
}

// NewGetCost returns a toy price lookup. The first known item mentioned in the argument
// wins; anything else gets a fixed default price.
func NewGetCost() *reagent.ToolFunc {
	return reagent.NewToolFunc(
		GetCostName,
		"returns the cost of a book",
		func(_ context.Context, argument string) (string, error) {
			arg := strings.ToLower(argument)
			for _, p := range prices {
				if strings.Contains(arg, p.item) {
					return p.reply, nil
				}
			}
			return "A random thing for writing costs $12.", nil
		},
	).WithExample("book")
}
