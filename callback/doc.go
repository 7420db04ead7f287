// Package callback receives job results that Smile Identity posts to a
// partner callback URL.
//
// Each result is signed with the partner's credentials using the same
// "<partnerID>:<timestamp>" HMAC scheme as outbound requests. The Receiver
// verifies the signature and, when MaxSkew is set, the timestamp freshness
// before handing the result to a Handler.
//
// Responses:
//   - 200 when the handler accepts the result
//   - 400 for a body that is not a JSON object
//   - 401 for a missing, invalid or stale signature
//   - 429 when the configured rate limit is exceeded
//   - 500 when the handler fails
package callback
