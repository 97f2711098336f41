package services

import (
	"errors"

	"github.com/shashiranjanraj/bazaar/app/apperr"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
