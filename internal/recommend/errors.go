// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package recommend

import (
	"context"
	"errors"
)

var (
	// ErrUserOutOfRange is returned for a user index outside [0, n_users).
	ErrUserOutOfRange = errors.New("user id out of range")

	// ErrItemOutOfRange is returned for an item index outside [0, n_items).
	ErrItemOutOfRange = errors.New("item id out of range")

	// ErrLengthMismatch is returned when paired input slices differ in length.
	ErrLengthMismatch = errors.New("input length mismatch")

	// ErrInvalidTopK is returned for k < 1.
	ErrInvalidTopK = errors.New("top-k must be at least 1")
)

// ErrorReason maps an error to a short metric label.
func ErrorReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserOutOfRange):
		return "user_out_of_range"
	case errors.Is(err, ErrItemOutOfRange):
		return "item_out_of_range"
	case errors.Is(err, ErrInvalidTopK):
		return "invalid_top_k"
	case errors.Is(err, ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
