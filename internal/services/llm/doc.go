// Package llm provides a chat completion client for OpenRouter and other
// OpenAI-compatible endpoints.
//
// The translation backend uses Client.Complete to send one subtitle line per
// request; subforge doctor uses Client.HealthCheck to confirm the API key and
// model before a long run.
//
// # Retry Behaviour
//
// The client retries HTTP 408/429/5xx responses, empty replies and network
// timeouts with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default). Retry-After headers are honoured. Context cancellation aborts
// retries immediately.
package llm
