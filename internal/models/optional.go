// Package models defines the account record stored by SteamKeeper and the
// value types it is built from.
package models

// Missing is the literal written to the store file for an unknown value.
const Missing = "missing"

// Optional is a string value that may be unknown.
//
// The zero value is absent. Inside the program absence is always expressed
// through Optional; the "missing" literal only exists in the persisted form.
type Optional struct {
	value string
	valid bool
}

// Some returns a present Optional holding v. Empty strings and the Missing
// literal are treated as absent so that wire values can be passed straight in.
func Some(v string) Optional {
	if v == "" || v == Missing {
		return Optional{}
	}
	return Optional{value: v, valid: true}
}

// None returns an absent Optional.
func None() Optional { return Optional{} }

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) { return o.value, o.valid }

// Present reports whether the value is known.
func (o Optional) Present() bool { return o.valid }

// Or returns the value, or def when absent.
func (o Optional) Or(def string) string {
	if !o.valid {
		return def
	}
	return o.value
}

// String renders the value for humans: absent values read as "missing".
func (o Optional) String() string { return o.Or(Missing) }
