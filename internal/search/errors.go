package search

import "errors"

// ErrNotConfigured reports that a provider has no usable configuration
// (missing API key or no provider wired at all). Callers treat it like any
// other provider failure: empty evidence for that side.
var ErrNotConfigured = errors.New("provider not configured")
