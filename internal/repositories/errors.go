package repositories

import (
	"errors"

	"github.com/lib/pq"
)

var ErrNotFound = errors.New("record not found")

// IsUniqueViolation reports whether err is a postgres unique_violation and,
// if so, which constraint was hit.
func IsUniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr.Constraint, true
	}
	return "", false
}
