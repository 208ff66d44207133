// Package bookmark provides bookmark storage and ownership-based
// authorisation.
//
// Every mutation (update, delete) must pass the ownership check binding
// a bookmark to its creating user. Existence is decided before identity:
// a missing bookmark is ErrNotFound regardless of who asks, while a
// present bookmark owned by someone else is ErrNotOwner. Reads are not
// owner-checked; see DESIGN.md for the rationale.
package bookmark
