package qdigest

import "errors"

// ErrInvalidArgument is returned (wrapped) when an operation is called with an
// argument outside of its domain.
var ErrInvalidArgument = errors.New("qdigest: invalid argument")
