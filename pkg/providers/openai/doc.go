// Package openai implements the fallback provider adapter for the OpenAI
// Chat Completions API.
//
// The canonical chat-completion shape already mirrors OpenAI's wire
// format, so request and response translation is a near passthrough. The
// canonical short model names ("efficient", "large") resolve to gpt-4o-mini
// and gpt-4o; any other name is forwarded unchanged.
//
// Streaming follows OpenAI's SSE framing, terminated by the [DONE]
// sentinel.
package openai
