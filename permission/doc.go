// Package permission decides who may act on posts and comments.
//
// [Decide] is a pure function of the action, the requester and the owner id
// of the target. Owners edit and delete their own posts and comments, any
// signed-in user may create content, and nobody may like their own post.
// Viewing is unrestricted.
//
// Two failure outcomes are kept apart: [Forbid] for a signed-in user who is
// not allowed, and [Unauthenticated] for an anonymous requester attempting a
// mutation.
package permission
