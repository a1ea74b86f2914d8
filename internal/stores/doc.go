// Package stores is the redis backend for goBlog's UserStore and
// ContentStore.
//
// # Design
//
// Users are versioned binary records; posts and comments are hashes so
// single fields can change in place. Ids come from INCR sequences and are
// never reused. Username uniqueness, like increments and in-place edits run
// as Lua scripts, so a concurrent delete cannot be undone by an edit and
// concurrent likes are never lost. Multi-key writes use MULTI pipelines.
//
// Deleting a post leaves its comment hashes in place; only the per-post
// comment index is dropped.
//
// # What this package must NOT do
//
//   - Enforce ownership or validation; the Engine does that.
//   - Import any sibling internal package.
package stores
