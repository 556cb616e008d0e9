// Package anthropic implements the primary provider adapter for the
// Anthropic Messages API.
//
// The adapter is responsible for the shape differences between the
// canonical chat-completion format and Anthropic's API:
//
//   - the first system message is lifted into the request's top-level
//     system field; subsequent system messages are dropped
//   - any role other than assistant is coerced to user
//   - canonical short model names ("efficient", "large") resolve to
//     concrete Anthropic model IDs; unknown names fall back to the
//     efficient tier
//   - stop reasons are normalized (end_turn/stop_sequence -> stop,
//     max_tokens -> length)
//
// Authentication uses the x-api-key header together with the
// anthropic-version header.
package anthropic
