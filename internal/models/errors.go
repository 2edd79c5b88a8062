// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// Domain errors shared by the taxonomy and post layers. All of them are
// recoverable at the HTTP boundary: handlers turn them into re-rendered
// forms or structured JSON errors, never into a crash.
var (
	// ErrDuplicateName is returned when a new taxonomy name collides
	// case-insensitively with an existing one.
	ErrDuplicateName = errors.New("name already exists")

	// ErrEmptyName is returned when a new taxonomy name is blank after trimming.
	ErrEmptyName = errors.New("name is empty")

	// ErrNotFound is returned when a referenced post or taxonomy entity
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInUse is returned when a taxonomy entity cannot be deleted because
	// at least one post references it.
	ErrInUse = errors.New("in use by posts")

	// ErrInvalidAction is returned for an unrecognized post save action.
	ErrInvalidAction = errors.New("invalid action")
)
