package config

// SentryConfig wires the Sentry error reporter. Leaving DSN empty disables
// reporting entirely; engine failures are then only logged.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`
}
