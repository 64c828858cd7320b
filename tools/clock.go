package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rickchristie/reagent"
)

// GetTimeName is the name of the clock tool.
const GetTimeName = "get_time"

// TimeLayout formats get_time output.
const TimeLayout = "2006-01-02 15:04:05"

// NewGetTime returns a tool reporting the current time in the IANA time zone named by
// the argument, e.g. "Asia/Kuala_Lumpur". An empty argument uses the local zone.
func NewGetTime(clock reagent.Clock) *reagent.ToolFunc {
	if clock == nil {
		clock = reagent.SystemClock{}
	}
	return reagent.NewToolFunc(
		GetTimeName,
		"Gets the current time for a location given as an IANA time zone name",
		func(_ context.Context, argument string) (string, error) {
			now := clock.Now()
			zone := strings.TrimSpace(argument)
			if zone == "" {
				return now.Local().Format(TimeLayout), nil
			}
			loc, err := time.LoadLocation(zone)
			if err != nil {
				return "", fmt.Errorf("unknown time zone %q", zone)
			}
			return now.In(loc).Format(TimeLayout), nil
		},
	).WithExample("Asia/Kuala_Lumpur")
}
