// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr defines the typed errors which may be returned by the
// use cases. Each error carries a Kind, so outer layers (such as the
// REST adapter) can map it to their own representation (e.g., an HTTP
// status code) without inspecting the error messages.
package cerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

// Supported error kinds.
const (
	KindUnknown Kind = iota

	KindInvalidDate
	KindInvalidRange
	KindNotFound
	KindUnqualified
	KindConflict
	KindStoreFailure
	KindBadRequest
	KindUnauthenticated
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindInvalidDate:     "invalid-date",
	KindInvalidRange:    "invalid-range",
	KindNotFound:        "not-found",
	KindUnqualified:     "unqualified",
	KindConflict:        "conflict",
	KindStoreFailure:    "store-failure",
	KindBadRequest:      "bad-request",
	KindUnauthenticated: "unauthenticated",
}

// String returns the dash-separated name of k.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified error. The Subject names the entity which the
// error is about (e.g., "car" for a NotFound error of a car lookup, or
// "user" for a reservation conflict on the user side) and may be empty.
type Error struct {
	Kind    Kind
	Subject string
	Err     error
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	switch {
	case e.Subject == "" && e.Err == nil:
		return e.Kind.String()
	case e.Subject == "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
	case e.Err == nil:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Subject)
	default:
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Subject, e.Err.Error())
	}
}

// Is reports whether target is an *Error with the same Kind and the
// same Subject (if target has a non-empty Subject), so errors.Is can
// be used like errors.Is(err, cerr.NotFound("car", nil)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Subject == "" || t.Subject == e.Subject)
}

// KindOf returns the Kind of the first *Error in the err tree, or
// KindUnknown if there is no such error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// SubjectOf returns the Subject of the first *Error in the err tree.
func SubjectOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Subject
	}
	return ""
}

// InvalidDate reports that the date in the named field is malformed
// or does not exist in the calendar.
func InvalidDate(field string, err error) *Error {
	return &Error{Kind: KindInvalidDate, Subject: field, Err: err}
}

// InvalidRange reports a date range which starts after its end.
func InvalidRange(err error) *Error {
	return &Error{Kind: KindInvalidRange, Err: err}
}

// NotFound reports that no subject entity (e.g., car) exists.
func NotFound(subject string, err error) *Error {
	return &Error{Kind: KindNotFound, Subject: subject, Err: err}
}

// Unqualified reports a user who may not make reservations.
func Unqualified(err error) *Error {
	return &Error{Kind: KindUnqualified, Subject: "user", Err: err}
}

// Conflict reports that a write clashes with an existing subject,
// such as an overlapping reservation or a duplicate email.
func Conflict(subject string, err error) *Error {
	return &Error{Kind: KindConflict, Subject: subject, Err: err}
}

// StoreFailure wraps err as a KindStoreFailure error, unless it is
// already a classified *Error which is returned unchanged.
func StoreFailure(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindStoreFailure, Err: err}
}

// BadRequest reports inputs which fail validation.
func BadRequest(err error) *Error {
	return &Error{Kind: KindBadRequest, Err: err}
}

// Unauthenticated reports missing or rejected credentials.
func Unauthenticated(err error) *Error {
	return &Error{Kind: KindUnauthenticated, Err: err}
}
