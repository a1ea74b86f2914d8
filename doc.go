// Package goBlog is the core of a small multi-user blog: accounts, signed
// session cookies, an ownership guard and post/comment storage.
//
// [Engine] is the public surface. Build one with [New], give it a
// [UserStore] and a [ContentStore] (redis and SQL backends live under
// internal/), and call its methods from HTTP handlers. Engine methods are
// safe for concurrent use after [Builder.Build].
//
// # Error taxonomy
//
// Operations return sentinel errors so transports can select a view:
// [ErrValidation] (via *[ValidationError]) re-renders a form, [ErrNotFound]
// renders the not-found view, [ErrForbidden] renders the error view and
// [ErrUnauthenticated] sends the browser to the login page.
//
// # What this package must NOT do
//
//   - Import a storage backend; backends import this package.
//   - Render HTML or touch http.ResponseWriter.
//   - Keep process-wide state; everything hangs off an Engine.
package goBlog
