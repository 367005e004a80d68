package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetlink/internal/auth"
	"github.com/mmynk/budgetlink/internal/calculator"
	"github.com/mmynk/budgetlink/internal/storage"
	"github.com/mmynk/budgetlink/internal/validation"
)

// connectError maps domain errors onto Connect codes.
func connectError(err error) error {
	var ce *connect.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrPasswordRequired),
		errors.Is(err, auth.ErrInvalidPassword),
		errors.Is(err, auth.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, validation.ErrInvalidInput),
		errors.Is(err, calculator.ErrInvalidExpense),
		errors.Is(err, calculator.ErrInvalidPayment),
		errors.Is(err, calculator.ErrDuplicateParticipant),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordTooLong):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// invalid wraps a message as a validation failure.
func invalid(msg string) error {
	return &validation.Error{Problems: []string{msg}}
}
