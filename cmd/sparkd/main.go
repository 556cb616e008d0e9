// Sparkd is the backend for 24Toolkit: a small HTTP service bundling a
// JSON key-value store, per-client rate limiting, and an AI chat
// completion proxy in front of Anthropic and OpenAI.
//
// Usage:
//
//	# Start the server with defaults (in-memory store, :8080)
//	sparkd run
//
//	# Start with a configuration file
//	sparkd run --config /etc/spark/config.yaml
//
//	# Validate a configuration file without starting
//	sparkd validate --config /etc/spark/config.yaml
//
//	# Show version information
//	sparkd version
package main

func main() {
	Execute()
}
