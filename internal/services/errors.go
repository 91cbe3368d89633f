package services

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Error taxonomy for the fulfillment core. Handlers match these with
// errors.Is and map them to HTTP statuses; everything else is a bug.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument means the input was malformed or out of range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict means an admission-control rejection, e.g. a full slot.
	ErrConflict = errors.New("conflict")
	// ErrStorage means the persistence layer failed.
	ErrStorage = errors.New("storage failure")
)

// mapStorageErr translates a repository error into the core taxonomy.
// Record-not-found becomes ErrNotFound, unique-key violations become
// ErrConflict; anything else is a storage failure carrying the original
// error text.
func mapStorageErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, msg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrap(ErrConflict, msg)
	}
	return errors.Wrapf(ErrStorage, "%s: %v", msg, err)
}

func statusAllowed(valid []string, status string) bool {
	for _, s := range valid {
		if s == status {
			return true
		}
	}
	return false
}
