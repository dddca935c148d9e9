package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors returned by Handler.Execute.
const (
	CodeInvalid  = "BREADCRUMB_COMMAND_INVALID"
	CodeCanceled = "BREADCRUMB_COMMAND_CANCELED"
	CodeTimeout  = "BREADCRUMB_COMMAND_TIMEOUT"
	CodeFailed   = "BREADCRUMB_COMMAND_FAILED"
)

// tag classifies err with a go-errors category and text code. Errors that
// already carry a classification are returned as is.
func tag(err error, invalid bool) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case invalid:
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").WithTextCode(CodeInvalid)
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").WithTextCode(CodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").WithTextCode(CodeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").WithTextCode(CodeFailed)
	}
}
