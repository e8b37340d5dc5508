// Package api is the HTTP client for the POC Portal backend.
//
// The backend owns all real business logic: identifier allocation,
// persistence and authorization. This package only builds requests,
// attaches the session token, and classifies what comes back.
//
// # Explicit tokens
//
// Every authenticated call takes the bearer token as an argument. There is
// no process-wide default-header state: which token a request uses is always
// visible at its call site, and stale tokens cannot leak into a new session.
//
// # Error taxonomy
//
// Failures are classified into a small set of types (see Error):
//   - network: the request could not be completed; the user may retry
//   - unauthorized: the distinguished 401 session-expiry signal, which
//     forces session teardown instead of a retry prompt
//   - server: any other non-2xx response, with the body's message when
//     one was present
//   - parse: a malformed body, including a 2xx save response that is
//     missing the expected identifier
//
// # Tolerant option decoding
//
// The dropdown-population endpoints are not consistent about response
// shape across backend revisions; DecodeOptions accepts every shape
// observed in the wild and flattens it into plain option strings.
package api
