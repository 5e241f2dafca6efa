package dsl

import (
	"errors"
	"fmt"
)

// Limits applied to a single statement before parsing.
const (
	// MaxStatementLength is the maximum allowed statement length (64KB)
	MaxStatementLength = 64 * 1024

	// MaxTokens is the maximum number of tokens in a statement
	MaxTokens = 1000

	// MaxNameLength is the maximum length for a dataframe, series or set name
	MaxNameLength = 256

	// MaxPathLength is the maximum length for a file name or folder
	MaxPathLength = 4096
)

var (
	// ErrStatementTooLong is returned when a statement exceeds MaxStatementLength
	ErrStatementTooLong = errors.New("statement too long")

	// ErrTooManyTokens is returned when a statement has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in statement")

	// ErrNameTooLong is returned when a name exceeds MaxNameLength
	ErrNameTooLong = errors.New("name too long")

	// ErrPathTooLong is returned when a file name exceeds MaxPathLength
	ErrPathTooLong = errors.New("path too long")

	// ErrEmptyStatement is returned when there is nothing to parse
	ErrEmptyStatement = errors.New("empty statement")
)

// ValidateStatement checks the raw statement text
func ValidateStatement(line string) error {
	if len(line) > MaxStatementLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrStatementTooLong, len(line), MaxStatementLength)
	}
	return nil
}

// ValidateTokens validates token count
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}
	return nil
}

// ValidateName validates a user-supplied name
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrNameTooLong, len(name), MaxNameLength)
	}
	return nil
}

// ValidatePath validates a file name or folder
func ValidatePath(path string) error {
	if len(path) > MaxPathLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrPathTooLong, len(path), MaxPathLength)
	}
	return nil
}
