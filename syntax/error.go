package syntax

import (
	"strconv"
	"strings"
)

// ErrorCode describes the kind of a syntax error. ErrorCode values are
// comparable with errors.Is against any *Error.
type ErrorCode string

// Syntax error codes.
const (
	ErrUnclosedGroup      ErrorCode = "Unclosed group"
	ErrUnmatchedParen     ErrorCode = "Unmatched closing ')'"
	ErrUnclosedClass      ErrorCode = "Unclosed character class"
	ErrIllegalRange       ErrorCode = "Illegal character range"
	ErrDanglingMeta       ErrorCode = "Dangling meta character"
	ErrIllegalRepetition  ErrorCode = "Illegal repetition"
	ErrRepetitionRange    ErrorCode = "Illegal repetition range"
	ErrUnclosedCount      ErrorCode = "Unclosed counted closure"
	ErrIllegalEscape      ErrorCode = "Illegal/unsupported escape sequence"
	ErrInvalidBackref     ErrorCode = "Invalid back reference"
	ErrUnknownGroupName   ErrorCode = "Named capturing group does not exist"
	ErrDuplicateGroupName ErrorCode = "Named capturing group is already defined"
	ErrBadGroupName       ErrorCode = "Bad named capturing group name"
	ErrUnknownFlag        ErrorCode = "Unknown inline modifier"
	ErrUnknownGroupType   ErrorCode = "Unknown group type"
	ErrUnknownProperty    ErrorCode = "Unknown character property name"
	ErrIllegalHex         ErrorCode = "Illegal hexadecimal escape sequence"
	ErrIllegalUnicode     ErrorCode = "Illegal Unicode escape sequence"
	ErrIllegalOctal       ErrorCode = "Illegal octal escape sequence"
	ErrIllegalControl     ErrorCode = "Illegal control escape sequence"
	ErrUnexpectedEnd      ErrorCode = "Unexpected end of pattern"
	ErrRepetitionTooLarge ErrorCode = "Repetition count too large"
)

// Error implements the error interface so codes work with errors.Is.
func (c ErrorCode) Error() string {
	return string(c)
}

// MaxRepeat is the largest count accepted in {n,m}.
const MaxRepeat = 1 << 20

// Error is a pattern syntax error. Index is the offset (in code points) in
// Pattern where the problem was found, or -1 when no position applies.
type Error struct {
	Code    ErrorCode
	Detail  string
	Pattern string
	Index   int
}

// Error formats the error as
//
//	<description> near index: <n>
//	<pattern>
//	<caret under index n>
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Description())
	if e.Index >= 0 {
		sb.WriteString(" near index: ")
		sb.WriteString(strconv.Itoa(e.Index))
	}
	sb.WriteByte('\n')
	sb.WriteString(e.Pattern)
	if e.Index >= 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", e.Index))
		sb.WriteByte('^')
	}
	return sb.String()
}

// Description returns the message without pattern and caret.
func (e *Error) Description() string {
	if e.Detail == "" {
		return string(e.Code)
	}
	return string(e.Code) + " " + e.Detail
}

// Unwrap returns the error code.
func (e *Error) Unwrap() error {
	return e.Code
}
