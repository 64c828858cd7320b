package tools

import (
	"net/http"

	"github.com/rickchristie/reagent"
)

// Defaults returns every built-in tool in catalog order. A nil client uses
// DefaultHTTPClient and a nil clock the system clock.
func Defaults(client *http.Client, clock reagent.Clock) []reagent.Tool {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return []reagent.Tool{
		NewCalculate(),
		NewGetCost(),
		NewWikipedia().WithHTTPClient(client),
		NewGetTime(clock),
		NewWeather().WithHTTPClient(client),
	}
}
