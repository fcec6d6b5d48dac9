// Package repository implements Postgres persistence for users, movies and
// collections.
package repository

import "errors"

// ErrNotFound covers both "row absent" and "row owned by another user" so
// callers cannot tell the two apart.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when a username collides with an existing user.
var ErrUsernameTaken = errors.New("username already taken")
