// Package middleware adapts goBlog.Engine to net/http.
//
//   - [LoadSession] resolves the session cookie to a user and stores it in
//     the request context. Requests without a valid cookie pass through as
//     anonymous.
//   - [RequireUser] redirects anonymous requests to the login page.
//   - [RequestID] assigns a correlation id and records the client address.
//   - [RequestLog] writes one access log line per request and feeds the
//     engine's latency histogram.
//
// Ownership decisions stay in the engine; nothing here looks at posts or
// comments.
package middleware
