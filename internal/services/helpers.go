package services

import (
	"errors"

	apperrors "lifeboard/internal/errors"
	"lifeboard/internal/store"
)

// translate maps store sentinels onto API errors. notFound is returned for
// store.ErrNotFound so each resource reports its own code.
func translate(err error, notFound *apperrors.AppError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFound
	case errors.Is(err, store.ErrConflict):
		return apperrors.ErrConflict
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}
