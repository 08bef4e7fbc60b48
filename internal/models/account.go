package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Account is the canonical game-account record.
//
// Every field is always addressable; unknown values are absent Optionals.
type Account struct {
	Login        Optional
	Password     Optional
	Mail         Optional
	MailPassword Optional
	RCode        Optional
	SteamID      Optional
	Link         Optional

	// CredentialFile is the parsed .maFile payload, empty if none is attached.
	CredentialFile Document
}

// Key returns the identity key: the steam id when known, else the login.
// It is empty for a record that has neither.
func (a Account) Key() string {
	if id, ok := a.SteamID.Get(); ok {
		return id
	}
	return a.Login.Or("")
}

// HasCredentialFile reports whether a credential file is attached.
func (a Account) HasCredentialFile() bool { return !a.CredentialFile.IsEmpty() }

// CredentialsLine renders login:password:mail:mail_password.
func (a Account) CredentialsLine() string {
	return strings.Join([]string{
		a.Login.String(), a.Password.String(), a.Mail.String(), a.MailPassword.String(),
	}, ":")
}

// ManifestLine renders the accounts.txt form login:password:mail:mail_password:link.
func (a Account) ManifestLine() string {
	return a.CredentialsLine() + ":" + a.Link.Or("")
}

// Summary is a labeled plaintext dump of every field.
func (a Account) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Login: %s\n", a.Login)
	fmt.Fprintf(&b, "Password: %s\n", a.Password)
	fmt.Fprintf(&b, "Email: %s\n", a.Mail)
	fmt.Fprintf(&b, "Email password: %s\n", a.MailPassword)
	fmt.Fprintf(&b, "R-code: %s\n", a.RCode)
	fmt.Fprintf(&b, "SteamID: %s\n", a.SteamID.Or(""))
	fmt.Fprintf(&b, "Link: %s\n", a.Link.Or(""))
	return b.String()
}

// Merge overlays candidate onto stored. A candidate field replaces the stored
// one only when it is present, so merging never loses a known value.
func Merge(stored, candidate Account) Account {
	merged := Account{
		Login:          overlay(stored.Login, candidate.Login),
		Password:       overlay(stored.Password, candidate.Password),
		Mail:           overlay(stored.Mail, candidate.Mail),
		MailPassword:   overlay(stored.MailPassword, candidate.MailPassword),
		RCode:          overlay(stored.RCode, candidate.RCode),
		SteamID:        overlay(stored.SteamID, candidate.SteamID),
		Link:           overlay(stored.Link, candidate.Link),
		CredentialFile: stored.CredentialFile,
	}
	if candidate.HasCredentialFile() {
		merged.CredentialFile = candidate.CredentialFile
	}
	return merged
}

func overlay(stored, candidate Optional) Optional {
	if candidate.Present() {
		return candidate
	}
	return stored
}

// accountJSON is the persisted shape of an Account.
//
// Absent login/password/mail/mail_password/r_code are written as "missing",
// absent steam_id/link as "". Records written by older builds used the
// "mafile" key for the credential file; it is still accepted on read.
type accountJSON struct {
	Login          looseString `json:"login"`
	Password       looseString `json:"password"`
	Mail           looseString `json:"mail"`
	MailPassword   looseString `json:"mail_password"`
	RCode          looseString `json:"r_code"`
	SteamID        looseString `json:"steam_id"`
	Link           looseString `json:"link"`
	CredentialFile Document    `json:"credential_file"`
	LegacyMaFile   Document    `json:"mafile,omitempty"`
}

// looseString decodes a JSON string, number or null. Older stores kept
// numeric steam ids as JSON numbers. Booleans keep their literal; objects and
// arrays read as absent.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = looseString(x)
	case json.Number:
		*s = looseString(x.String())
	case bool:
		*s = looseString(strconv.FormatBool(x))
	default:
		*s = ""
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountJSON{
		Login:          looseString(a.Login.String()),
		Password:       looseString(a.Password.String()),
		Mail:           looseString(a.Mail.String()),
		MailPassword:   looseString(a.MailPassword.String()),
		RCode:          looseString(a.RCode.String()),
		SteamID:        looseString(a.SteamID.Or("")),
		Link:           looseString(a.Link.Or("")),
		CredentialFile: a.CredentialFile,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Account) UnmarshalJSON(b []byte) error {
	var v accountJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	*a = Account{
		Login:          Some(string(v.Login)),
		Password:       Some(string(v.Password)),
		Mail:           Some(string(v.Mail)),
		MailPassword:   Some(string(v.MailPassword)),
		RCode:          Some(string(v.RCode)),
		SteamID:        Some(string(v.SteamID)),
		Link:           Some(string(v.Link)),
		CredentialFile: v.CredentialFile,
	}
	if a.CredentialFile.IsEmpty() && !v.LegacyMaFile.IsEmpty() {
		a.CredentialFile = v.LegacyMaFile
	}
	return nil
}
