package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"notation/local-app/internal/model"
)

// classify wraps err in a model error. driverKind inspects driver-specific
// error types; it returns model.UnknownError when it does not recognise err.
func classify(op, id string, err error, driverKind func(error) model.ErrorKind) error {
	if err == nil {
		return nil
	}
	var classified *model.Error
	if errors.As(err, &classified) {
		return err
	}
	// Cancellation belongs to the caller and passes through as is.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return model.NewError(model.StoreUnavailable, op, id, err)
	}
	if kind := driverKind(err); kind != model.UnknownError {
		return model.NewError(kind, op, id, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
