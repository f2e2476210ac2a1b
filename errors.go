package conduit

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures the engine can surface. See SPEC_FULL.md §7.
type ErrorKind uint8

const (
	// ErrKindNone is the zero value; never appears on a returned *Error.
	ErrKindNone ErrorKind = iota
	ErrKindTypeMismatch
	ErrKindPathNotFound
	ErrKindIndexOutOfRange
	ErrKindInvalidLayout
	ErrKindParseError
	ErrKindConversionError
	ErrKindIoError
	ErrKindAllocationError
)

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrKindTypeMismatch:
		return "TypeMismatch"
	case ErrKindPathNotFound:
		return "PathNotFound"
	case ErrKindIndexOutOfRange:
		return "IndexOutOfRange"
	case ErrKindInvalidLayout:
		return "InvalidLayout"
	case ErrKindParseError:
		return "ParseError"
	case ErrKindConversionError:
		return "ConversionError"
	case ErrKindIoError:
		return "IoError"
	case ErrKindAllocationError:
		return "AllocationError"
	default:
		return "unknown"
	}
}

// Sentinel errors for use with errors.Is. Every *Error returned by this
// package unwraps to exactly one of these.
var (
	ErrTypeMismatch    = errors.New("conduit: type mismatch")
	ErrPathNotFound    = errors.New("conduit: path not found")
	ErrIndexOutOfRange = errors.New("conduit: index out of range")
	ErrInvalidLayout   = errors.New("conduit: invalid layout")
	ErrParseError      = errors.New("conduit: parse error")
	ErrConversionError = errors.New("conduit: conversion error")
	ErrIoError         = errors.New("conduit: io error")
	ErrAllocationError = errors.New("conduit: allocation error")
)

func sentinelFor(k ErrorKind) error {
	switch k {
	case ErrKindTypeMismatch:
		return ErrTypeMismatch
	case ErrKindPathNotFound:
		return ErrPathNotFound
	case ErrKindIndexOutOfRange:
		return ErrIndexOutOfRange
	case ErrKindInvalidLayout:
		return ErrInvalidLayout
	case ErrKindParseError:
		return ErrParseError
	case ErrKindConversionError:
		return ErrConversionError
	case ErrKindIoError:
		return ErrIoError
	case ErrKindAllocationError:
		return ErrAllocationError
	default:
		return nil
	}
}

// Error is the engine's error value: it carries enough context to name the
// offending path or dtype, per §7's "at minimum the error kind and a
// descriptive message naming the offending path or dtype."
type Error struct {
	Kind    ErrorKind
	Path    string // offending path, if any
	Dtype   string // offending dtype/kind name, if any
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Dtype != "":
		return fmt.Sprintf("conduit: %s: %s (path=%q dtype=%s)", e.Kind, e.Message, e.Path, e.Dtype)
	case e.Path != "":
		return fmt.Sprintf("conduit: %s: %s (path=%q)", e.Kind, e.Message, e.Path)
	case e.Dtype != "":
		return fmt.Sprintf("conduit: %s: %s (dtype=%s)", e.Kind, e.Message, e.Dtype)
	default:
		return fmt.Sprintf("conduit: %s: %s", e.Kind, e.Message)
	}
}

// Unwrap lets errors.Is(err, ErrTypeMismatch) (etc.) work against an *Error.
func (e *Error) Unwrap() error {
	return sentinelFor(e.Kind)
}

func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func newPathErr(kind ErrorKind, path string, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

func newDtypeErr(kind ErrorKind, dtype string, format string, args ...any) *Error {
	return &Error{Kind: kind, Dtype: dtype, Message: fmt.Sprintf(format, args...)}
}
