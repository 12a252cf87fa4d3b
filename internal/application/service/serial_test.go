package service

import (
	"errors"
	"testing"

	"github.com/freelio/freelio-api/internal/domain/repository"
	"gorm.io/gorm"
)

func TestWithSerialRetryRedrawsOnCollision(t *testing.T) {
	calls := 0
	err := withSerialRetry(func() error {
		calls++
		if calls < 3 {
			return gorm.ErrDuplicatedKey
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithSerialRetryRetriesVersionConflicts(t *testing.T) {
	calls := 0
	err := withSerialRetry(func() error {
		calls++
		if calls == 1 {
			return repository.ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWithSerialRetryGivesUpEventually(t *testing.T) {
	calls := 0
	err := withSerialRetry(func() error {
		calls++
		return gorm.ErrDuplicatedKey
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err = %v, want duplicated key", err)
	}
	if calls != serialAttempts {
		t.Errorf("calls = %d, want %d", calls, serialAttempts)
	}
}

func TestWithSerialRetryPassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := withSerialRetry(func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
