// Package tools provides the built-in text-in/text-out tools used by the demo agent.
//
//   - calculate: arithmetic expressions ("4 * 7 / 3", "2 ** 10")
//   - get_cost: toy price lookup
//   - wikipedia: first MediaWiki search result snippet
//   - get_time: current time in an IANA time zone
//   - get_weather: current temperature for a city from Open-Meteo
//
// HTTP-backed tools take an *http.Client and base URLs so they can be pointed at
// httptest servers.
package tools
