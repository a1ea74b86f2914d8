// Package sqlstore is the relational backend for goBlog, built on GORM with
// sqlite and postgres drivers.
//
// Tables are users, posts and comments. comments.post_id carries no foreign
// key so that deleting a post leaves its comments in place. Likes are
// incremented with a single "likes = likes + 1" UPDATE.
package sqlstore
