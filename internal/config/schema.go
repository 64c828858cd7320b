package config

import (
	"github.com/rickchristie/reagent/schema"
	"github.com/rickchristie/reagent/tools"
)

const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// FileSchema validates config files before they are decoded.
var FileSchema = schema.MustCompile(schema.Object(map[string]*schema.Property{
	"provider": schema.String("Model provider").
		Enum(ProviderOpenAI, ProviderGitHub, ProviderScripted).
		Default(ProviderOpenAI),
	"model": schema.String("Model name, e.g. gpt-4o-mini or openai/gpt-4.1").MinLength(1),
	"base_url": schema.String("OpenAI-compatible API base URL").
		Format("uri").
		Pattern(`^https?://`),
	"temperature": schema.Number("Sampling temperature").Min(0).Max(2),
	"max_iterations": schema.Integer("Maximum model calls per question").
		Min(1).
		Default(DefaultMaxIterations),
	"retry": schema.Nested("Retries for failed model calls", map[string]*schema.Property{
		"attempts":         schema.Integer("Total attempts per model call").Min(1).Default(1),
		"initial_interval": schema.String("Wait before the first retry").Pattern(durationPattern),
	}),
	"log_level": schema.String("Log level").
		Enum("debug", "info", "warn", "warning", "error").
		Default("info"),
	"http_timeout": schema.String("Timeout for tool HTTP requests").
		Pattern(durationPattern).
		Default(tools.DefaultHTTPTimeout.String()),
	"behavior": schema.String("Text placed at the top of the system prompt"),
	"tools": schema.Array("Enabled tools, in catalog order",
		schema.String("Tool name").Enum(
			tools.CalculateName,
			tools.GetCostName,
			tools.WikipediaName,
			tools.GetTimeName,
			tools.GetWeatherName,
		).Schema()),
}))
