package chisel

import (
	"fmt"
	"strings"
)

// CompileError is a failure tied to a place in the source.
type CompileError interface {
	error
	GetLocation() *Location
}

// ParseError reports the first grammar violation found by the parser.
type ParseError struct {
	Loc    *Location
	Reason string
}

func (e *ParseError) Error() string {
	if e.Loc == nil {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Loc, e.Reason)
}

func (e *ParseError) GetLocation() *Location { return e.Loc }

// RangeError reports an exit code that is not a valid process status.
type RangeError struct {
	Loc      *Location
	Function string
	Value    string
}

func (e *RangeError) Error() string {
	msg := fmt.Sprintf("%s code %s out of range [0, 255]", e.Function, e.Value)
	if e.Loc == nil {
		return msg
	}

	return fmt.Sprintf("%s: %s", e.Loc, msg)
}

func (e *RangeError) GetLocation() *Location { return e.Loc }

// ToolchainError reports a C compiler that could not be run or exited
// with a failure.
type ToolchainError struct {
	CC     string
	Args   []string
	Output string
	Err    error
}

func (e *ToolchainError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.CC, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}

	return msg
}

func (e *ToolchainError) Unwrap() error {
	return e.Err
}
