// Package common defines sentinel errors shared by the storage, service and
// transport layers of SteamKeeper. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrNoIdentity is returned for a record that has neither a steam id
	// nor a login and therefore cannot be keyed in the store.
	ErrNoIdentity = errors.New("record has neither steam id nor login")
)
