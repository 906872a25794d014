// Package password hashes and verifies user passwords.
//
// New digests are produced with the configured primary algorithm (Argon2id by
// default, bcrypt optionally). Verification recognises every supported
// algorithm by its digest prefix, so switching the primary algorithm does not
// lock out users whose digests were produced by the other one.
//
// Plaintext passwords are never stored, logged or included in errors.
package password
