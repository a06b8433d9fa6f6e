// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidToken is returned when a bearer token does not resolve to an
// active credential.
var ErrInvalidToken = errors.New("invalid token")
