package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/dogs/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
)

const resourceName = "Dog"

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return fmt.Errorf("%w: %w", apierrors.NewValidation(apierrors.CodeMandatoryField, "name"), err)
	case errors.Is(err, domain.ErrMissingDateOfBirth):
		return fmt.Errorf("%w: %w", apierrors.NewValidation(apierrors.CodeMandatoryField, "dateOfBirth"), err)
	case errors.Is(err, domain.ErrFutureDateOfBirth):
		return fmt.Errorf("%w: %w", apierrors.NewValidation(apierrors.CodeFutureDateOfBirth, "dateOfBirth"), err)
	}
	return err
}

func notFound(id int64, err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", apierrors.NewNotFound(resourceName, id), err)
	}
	return err
}
