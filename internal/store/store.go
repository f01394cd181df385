package store

import "errors"

// ErrVersionConflict is returned by optimistic updates when the row was
// modified by another writer since the entity was loaded. The caller
// should reload and retry with fresh state.
var ErrVersionConflict = errors.New("version conflict: row changed since it was loaded")
