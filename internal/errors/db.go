package errors

import (
	"context"
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column from a unique violation detail: "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// constraintMessages gives user-facing text for the constraints our schema declares.
var constraintMessages = map[string]struct {
	field   string
	message string
}{
	"users_pkey":                     {"net_id", "A user with this netId already exists."},
	"users_repo_url_key":             {"repo_url", "This repository is already claimed by another user."},
	"users_repo_url_len":             {"repo_url", "Repository URL cannot exceed 255 characters."},
	"users_role_check":               {"role", "invalid role. must be one of: STUDENT, ADMIN"},
	"repo_updates_net_id_fkey":       {"net_id", "The user does not exist."},
	"repo_updates_admin_net_id_fkey": {"admin_net_id", "The admin user does not exist."},
}

// MapDBError maps database errors to AppError instances:
//   - context deadline/cancel become Timeout/Canceled
//   - pgx.ErrNoRows becomes NotFound
//   - unique violations become Conflict
//   - foreign key violations become ForeignKey
//   - check and not-null violations become Validation
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrapf(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrapf(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrapf(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	var code ErrorCode
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		code = ErrCodeConflict
	case pgerrcode.ForeignKeyViolation:
		code = ErrCodeForeignKey
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		code = ErrCodeValidation
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}

	appErr := &AppError{Code: code, Cause: pgErr}
	if known, ok := constraintMessages[pgErr.ConstraintName]; ok {
		appErr.Field = known.field
		appErr.Message = known.message
		return appErr
	}

	appErr.Field = pgErr.ColumnName
	if appErr.Field == "" && pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			appErr.Field = m[1]
		}
	}
	appErr.Message = genericMessage(code)
	return appErr
}

func genericMessage(code ErrorCode) string {
	switch code {
	case ErrCodeConflict:
		return "This value already exists. Please choose a different one."
	case ErrCodeForeignKey:
		return "Cannot complete operation because a referenced record does not exist."
	default:
		return "Invalid data. Please check your input."
	}
}
