// Package models provides reagent.Model implementations.
//
// LCGWrapper adapts any LangChainGo llms.Model. NewOpenAI and NewGitHubModel build
// wrappers for OpenAI-compatible endpoints. ScriptedModel replays canned replies for
// tests and offline demos.
package models
