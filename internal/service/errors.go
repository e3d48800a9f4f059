package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/dto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Error taxonomy surfaced to handlers. Wrap with fmt.Errorf("%w: ...") to add context.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = dto.ErrValidation
	ErrInsufficientBalance = errors.New("insufficient loyalty balance")
	ErrConflict            = errors.New("conflict")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// repoErr maps gorm errors onto the taxonomy; anything else passes through.
func repoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	default:
		return err
	}
}

// parseID reports a malformed id as a validation error on field.
func parseID(s, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dto.NewValidationError(field, "uuid")
	}
	return id, nil
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (repositories then use their own handle).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func idPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// parseBoolFilter turns "true"/"false" query values into a pointer; anything else means no filter.
func parseBoolFilter(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
