// Package web serves the blog over HTTP.
//
// [NewServer] wires a gorilla/mux router over an Engine and renders the
// embedded html/template views. Routes:
//
//	GET       /                                  post list, newest first
//	GET       /{id}                              permalink with comments
//	GET,POST  /newpost                           create a post
//	GET,POST  /{id}/edit                         edit a post (owner)
//	GET,POST  /{id}/delete                       delete a post (owner)
//	GET       /{id}/likes                        like a post (not the owner)
//	GET,POST  /{id}/comment                      add a comment
//	GET,POST  /{id}/updatecomment/{cid}          edit a comment (owner)
//	GET       /{id}/deletecomment/{cid}          delete a comment (owner)
//	GET,POST  /signup, /login                    account forms
//	GET       /logout                            clear the session cookie
//	GET       /metrics                           Prometheus text, when enabled
//
// Anonymous mutations redirect to /login. Refusals by the ownership guard
// render the error view with status 200; missing records render the
// not-found view with status 404.
package web
