// Package discord is the boundary to the remote resource store. It defines
// the API interface the reconciliation engine consumes, a REST client
// implementing it against the Discord v10 HTTP API, and an in-memory Fake
// with faithful position-shift semantics for tests.
//
// Every method is one remote round trip. The client retries rate limits and
// transient server errors internally (via go-retryablehttp, honoring
// Retry-After); failures that survive the retry budget come back as
// *guild.APIError so callers can distinguish transient from permanent
// rejection.
package discord
