// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package pipeview

import (
	"errors"
	"fmt"
)

// Common errors returned by the library.
var (
	// ErrRead matches a TransferError caused by the source.
	ErrRead = errors.New("read failed")

	// ErrWrite matches a TransferError caused by the sink.
	ErrWrite = errors.New("write failed")

	// ErrInvalidSize is returned by ParseSize for malformed size strings.
	ErrInvalidSize = errors.New("invalid size")
)

// TransferError is the fatal error returned by Engine.Run. It wraps the
// underlying read or write failure.
type TransferError struct {
	// Op is "read" or "write".
	Op string

	// Transferred is the number of units accounted before the failure.
	Transferred uint64

	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for the direction sentinels.
func (e *TransferError) Is(target error) bool {
	switch e.Op {
	case opRead:
		return target == ErrRead
	case opWrite:
		return target == ErrWrite
	default:
		return false
	}
}
