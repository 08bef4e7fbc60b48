package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/steamkeeper/internal/models"
)

// ProfileURLPrefix is prepended to a steam id to build a profile link.
const ProfileURLPrefix = "https://steamcommunity.com/profiles/"

// ParseMaFile parses a .maFile payload. The payload is kept verbatim as the
// record's credential file; login, revocation code and steam id are lifted
// from account_name, revocation_code and Session.SteamID.
func ParseMaFile(content string) (models.Account, error) {
	raw := bytes.TrimSpace([]byte(content))

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		return models.Account{}, fmt.Errorf("%w: not a JSON object", ErrMalformed)
	}

	var steamID string
	if session, ok := top["Session"]; ok {
		var s map[string]json.RawMessage
		if err := json.Unmarshal(session, &s); err == nil {
			steamID = scalar(s["SteamID"])
		}
	}

	acc := models.Account{
		Login:          models.Some(scalar(top["account_name"])),
		Password:       models.None(),
		Mail:           models.None(),
		MailPassword:   models.None(),
		RCode:          models.Some(scalar(top["revocation_code"])),
		SteamID:        models.Some(steamID),
		CredentialFile: models.Document(raw),
	}
	if id, ok := acc.SteamID.Get(); ok {
		acc.Link = models.Some(ProfileURLPrefix + id)
	}
	return acc, nil
}

// scalar renders a JSON string or number as text; anything else is "".
// Steam ids are written as bare 64-bit numbers by some authenticators, so
// numbers are taken literally instead of through float64.
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		return strings.TrimSpace(string(raw))
	default:
		return ""
	}
}
