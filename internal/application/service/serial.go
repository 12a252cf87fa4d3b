package service

import (
	"errors"

	domainRepo "github.com/freelio/freelio-api/internal/domain/repository"
	"gorm.io/gorm"
)

// serialAttempts bounds the redraw loop for year-scoped serial numbers.
const serialAttempts = 3

// withSerialRetry runs fn, retrying when it failed on a serial collision or
// an optimistic version conflict. Count-then-insert is not atomic, so two
// writers in the same year can draw the same serial; the unique index
// rejects the loser, which redraws against the fresh count. Any other error
// aborts immediately.
func withSerialRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < serialAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) && !errors.Is(err, domainRepo.ErrVersionConflict) {
			return err
		}
	}
	return err
}
