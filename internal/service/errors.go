package service

import (
	"errors"

	"codelab/internal/models"

	"gorm.io/gorm"
)

// orNotFound maps gorm's record-not-found onto the domain NotFound error,
// leaving every other error untouched.
func orNotFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
