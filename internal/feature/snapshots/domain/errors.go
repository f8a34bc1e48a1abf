// Package domain defines domain-level errors for the snapshots feature.
package domain

import "errors"

// ErrNotFound indicates that no row exists for the requested symbol.
var ErrNotFound = errors.New("not found")
