// Package token issues and verifies signed, time-limited access tokens.
//
// Tokens are HS256 JWTs. The subject claim carries the user id as a decimal
// string; every token also carries exp, iat, nbf and a ULID jti. The signing
// secret is handed to NewManager once at startup. Rotating it invalidates
// every outstanding token; there is no revocation list.
package token
