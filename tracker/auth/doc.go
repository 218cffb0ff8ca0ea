// Package auth implements the security-sensitive slice of taskdeck:
// password hashing and the issuance/verification of signed identity tokens.
//
// Passwords are never stored; only a digest is. New digests use argon2id
// with a per-user random salt. The legacy format (unsalted hex-encoded
// SHA-256) is still accepted on verification so that stores created by
// older deployments keep working, but nothing in this package will ever
// produce a new digest in that format.
//
// Tokens are stateless JWTs signed with HMAC-SHA256 over a server-side
// secret. The subject claim carries the user id, the name claim carries
// the username, and the expiration is issuance time plus a configurable
// TTL (seven days by default). Because tokens are stateless there is no
// revocation list: losing the signing secret means rotating it and
// forcing everyone to log in again.
//
// Verification fails closed. Any defect in the presented token, wrong
// algorithm, broken signature, expired, missing or non-numeric subject,
// collapses into the same ErrInvalidToken so that callers cannot leak
// which part of the chain failed.
package auth
