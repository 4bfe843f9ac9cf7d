package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/owners/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
)

const resourceName = "Owner"

func mapError(err error) error {
	if err == nil {
		return nil
	}
	field := ""
	code := apierrors.CodeMandatoryField
	switch {
	case errors.Is(err, domain.ErrEmptyFirstName):
		field = "firstName"
	case errors.Is(err, domain.ErrEmptyLastName):
		field = "lastName"
	case errors.Is(err, domain.ErrEmptyCity):
		field = "city"
	case errors.Is(err, domain.ErrEmptyEmail):
		field = "email"
	case errors.Is(err, domain.ErrInvalidAge):
		field, code = "age", apierrors.CodeInvalidParameter
	default:
		return err
	}
	return fmt.Errorf("%w: %w", apierrors.NewValidation(code, field), err)
}

func notFound(id int64, err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", apierrors.NewNotFound(resourceName, id), err)
	}
	return err
}

func duplicateEmail(email string, err error) error {
	if errors.Is(err, ports.ErrDuplicateEmail) {
		return fmt.Errorf("%w: %w", apierrors.NewAlreadyExists(resourceName, email), err)
	}
	return err
}
