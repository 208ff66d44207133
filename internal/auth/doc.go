// Package auth provides credential verification and session-token
// lifecycle management for Bookmarkd.
//
// It implements:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Dual JWT tokens (access + refresh) signed with independent secrets
//   - Single-use refresh token rotation backed by an atomic
//     compare-and-swap on the stored token hash
//   - Logout-driven session revocation
//
// Session state is a single column on the user row: the Argon2id hash of
// the most recently issued refresh token, or NULL after logout. At most
// one refresh token is outstanding per user; a successful login or
// refresh replaces it, invalidating the prior token.
package auth
