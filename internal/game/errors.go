package game

import (
	"errors"
	"fmt"
)

// ErrorCode classifies rule-engine rejections. Every handler failure is
// recoverable by the caller; no handler mutates state before rejecting.
type ErrorCode string

const (
	// CodeInvalidAction covers wrong turn, wrong sub-step, or an action
	// already taken this turn.
	CodeInvalidAction ErrorCode = "invalid_action"
	// CodeIllegalTarget covers out-of-bounds, island, out-of-range, and
	// already-visited targets.
	CodeIllegalTarget ErrorCode = "illegal_target"
	// CodeInsufficientCharge marks system activation below full charge.
	CodeInsufficientCharge ErrorCode = "insufficient_charge"
)

// RuleError is the typed failure returned by every action handler.
type RuleError struct {
	Code   ErrorCode
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// CodeOf extracts the error code, or "" for non-rule errors.
func CodeOf(err error) ErrorCode {
	var rule *RuleError
	if errors.As(err, &rule) {
		return rule.Code
	}
	return ""
}

func invalidActionf(format string, args ...any) error {
	return &RuleError{Code: CodeInvalidAction, Reason: fmt.Sprintf(format, args...)}
}

func illegalTargetf(format string, args ...any) error {
	return &RuleError{Code: CodeIllegalTarget, Reason: fmt.Sprintf(format, args...)}
}

func insufficientChargef(format string, args ...any) error {
	return &RuleError{Code: CodeInsufficientCharge, Reason: fmt.Sprintf(format, args...)}
}
