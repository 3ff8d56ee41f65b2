package focusflow

import "errors"

// ErrNotFound is returned by repos when an id does not resolve to a record.
var ErrNotFound = errors.New("record not found")
