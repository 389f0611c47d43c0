package main

import (
	"errors"
	"fmt"
)

type ParseErrorKind string

const (
	UnsupportedExtension     ParseErrorKind = "UnsupportedExtension"
	UnrecognizedEncoding     ParseErrorKind = "UnrecognizedEncoding"
	UnsupportedJSONStructure ParseErrorKind = "UnsupportedJSONStructure"
	GenericParseFailure      ParseErrorKind = "GenericParseFailure"
)

var ErrArtifactNotFound = errors.New("chart not found")

// ParseError is returned for any input the ingestion boundary refuses.
type ParseError struct {
	Kind ParseErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnsupportedExtension:
		return fmt.Sprintf("unsupported file type: %v (allowed: %v)", e.Err, allowedExtensions)
	case UnrecognizedEncoding:
		return "could not recognize the CSV file encoding"
	case UnsupportedJSONStructure:
		return "unsupported JSON structure"
	}
	return fmt.Sprintf("failed to parse file: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(kind ParseErrorKind, err error) *ParseError {
	return &ParseError{Kind: kind, Err: err}
}

func parseFailure(format string, args ...interface{}) *ParseError {
	return newParseError(GenericParseFailure, fmt.Errorf(format, args...))
}
