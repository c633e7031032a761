package store

import (
	"errors"
	"strconv"
)

// ErrInvalidRoleID is returned when a role id is not a Discord snowflake.
// The on-disk format stores role ids as integers.
var ErrInvalidRoleID = errors.New("role id is not a numeric snowflake")

// Store persists vanity assignments, one role id per user id.
// Every mutation is persisted before it returns.
type Store interface {
	Get(userID string) (roleID string, ok bool, err error)
	Put(userID, roleID string) error
	Delete(userID string) error
	// All returns a copy of every assignment keyed by user id.
	All() (map[string]string, error)
}

func validateRoleID(roleID string) error {
	if _, err := strconv.ParseUint(roleID, 10, 64); err != nil {
		return ErrInvalidRoleID
	}
	return nil
}
