// Package session encodes user ids into tamper-evident cookie tokens.
//
// The default [HMACCodec] produces "<id>|<hex mac>" where the MAC is
// HMAC-SHA256 keyed by the server secret. [JWTCodec] is an alternate format
// carrying the id in an HS256 token. Neither format expires; a token stays
// valid until the secret rotates or the user clears the cookie.
//
// Cookie helpers build the "user_id" cookie with the attributes chosen in
// [CookieConfig].
//
// This package does not resolve ids to accounts; callers look the id up in
// their user store after Verify succeeds.
package session
