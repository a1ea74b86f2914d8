// Package password salts and hashes account passwords with Argon2id.
//
// Hashes are PHC strings:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>
//
// Salt and key use unpadded standard base64. Every Hash call draws a new
// random salt. [Argon2.NeedsRehash] reports hashes made with weaker
// parameters so callers can upgrade them after a successful login.
//
// Length and character policy belong to the caller. This package never
// logs or stores plaintext.
package password
