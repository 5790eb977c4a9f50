// Package svcerr holds the coded errors shared by the services and the HTTP
// layer. A code names what went wrong; its Kind decides how it is surfaced.
package svcerr

import (
	"errors"
	"fmt"
)

type ErrCode string

const (
	ErrBadInput         ErrCode = "BAD_INPUT"
	ErrItemNotFound     ErrCode = "ITEM_NOT_FOUND"
	ErrMemberNotFound   ErrCode = "MEMBER_NOT_FOUND"
	ErrUserNotFound     ErrCode = "USER_NOT_FOUND"
	ErrIssueNotFound    ErrCode = "ISSUE_NOT_FOUND"
	ErrDuplicateItem    ErrCode = "DUPLICATE_ITEM"
	ErrDuplicateMember  ErrCode = "DUPLICATE_MEMBER"
	ErrUsernameTaken    ErrCode = "USERNAME_TAKEN"
	ErrAlreadyIssued    ErrCode = "ALREADY_ISSUED"
	ErrItemUnavailable  ErrCode = "ITEM_UNAVAILABLE"
	ErrNotIssued        ErrCode = "NOT_ISSUED"
	ErrFineNotConfirmed ErrCode = "FINE_NOT_CONFIRMED"
	ErrInactiveBorrower ErrCode = "INACTIVE_BORROWER"
	ErrUnauthorized     ErrCode = "UNAUTHORIZED"
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrInvalidCreds     ErrCode = "INVALID_CREDENTIALS"
	ErrSerialMismatch   ErrCode = "SERIAL_MISMATCH"
	ErrFineMismatch     ErrCode = "FINE_MISMATCH"
	ErrNotOverdue       ErrCode = "NOT_OVERDUE"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthorization
	KindAuthentication
	KindIntegrity
)

var kinds = map[ErrCode]Kind{
	ErrBadInput:         KindValidation,
	ErrItemNotFound:     KindNotFound,
	ErrMemberNotFound:   KindNotFound,
	ErrUserNotFound:     KindNotFound,
	ErrIssueNotFound:    KindNotFound,
	ErrDuplicateItem:    KindConflict,
	ErrDuplicateMember:  KindConflict,
	ErrUsernameTaken:    KindConflict,
	ErrAlreadyIssued:    KindConflict,
	ErrItemUnavailable:  KindConflict,
	ErrNotIssued:        KindConflict,
	ErrFineNotConfirmed: KindValidation,
	ErrInactiveBorrower: KindAuthorization,
	ErrUnauthorized:     KindAuthorization,
	ErrForbidden:        KindAuthorization,
	ErrInvalidCreds:     KindAuthentication,
	ErrSerialMismatch:   KindIntegrity,
	ErrFineMismatch:     KindIntegrity,
	ErrNotOverdue:       KindValidation,
}

func (c ErrCode) Kind() Kind {
	if k, ok := kinds[c]; ok {
		return k
	}
	return KindUnexpected
}

// FieldError is one failed input field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type codedError struct {
	code   ErrCode
	msg    string
	fields []FieldError
}

func (e *codedError) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.msg
}
func (e *codedError) Code() ErrCode        { return e.code }
func (e *codedError) Message() string      { return e.msg }
func (e *codedError) Fields() []FieldError { return e.fields }

func New(c ErrCode, msg string) error { return &codedError{code: c, msg: msg} }

func Newf(c ErrCode, format string, args ...any) error {
	return &codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

// Invalid builds a BAD_INPUT error carrying field level detail.
func Invalid(msg string, fields ...FieldError) error {
	return &codedError{code: ErrBadInput, msg: msg, fields: fields}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Message returns the client-facing message of a coded error.
func Message(err error) string {
	var ce interface{ Message() string }
	if errors.As(err, &ce) {
		return ce.Message()
	}
	return ""
}

func Fields(err error) []FieldError {
	var ce interface{ Fields() []FieldError }
	if errors.As(err, &ce) {
		return ce.Fields()
	}
	return nil
}

func Is(err error, c ErrCode) bool { return Code(err) == c }
