package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/domain"
	"github.com/Apurer/go-gin-dog-registry/internal/domains/breeds/ports"
	apierrors "github.com/Apurer/go-gin-dog-registry/internal/shared/errors"
)

const resourceName = "Breed"

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return fmt.Errorf("%w: %w", apierrors.NewValidation(apierrors.CodeMandatoryField, "breedName"), err)
	case errors.Is(err, domain.ErrEmptyOriginCountry):
		return fmt.Errorf("%w: %w", apierrors.NewValidation(apierrors.CodeMandatoryField, "originCountry"), err)
	case errors.Is(err, domain.ErrInvalidLifeExpectancy):
		return fmt.Errorf("%w: %w", apierrors.NewValidation(apierrors.CodeInvalidParameter, "averageLifeExpectancy"), err)
	}
	return err
}

func notFound(id int64, err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", apierrors.NewNotFound(resourceName, id), err)
	}
	return err
}

func duplicateName(name string, err error) error {
	if errors.Is(err, ports.ErrDuplicateName) {
		return fmt.Errorf("%w: %w", apierrors.NewAlreadyExists(resourceName, name), err)
	}
	return err
}
