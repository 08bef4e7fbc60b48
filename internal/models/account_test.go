package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSome_TreatsSentinelAsAbsent(t *testing.T) {
	assert.False(t, Some("").Present())
	assert.False(t, Some(Missing).Present())

	v, ok := Some("alice").Get()
	require.True(t, ok)
	assert.Equal(t, "alice", v)
	assert.Equal(t, Missing, None().String())
	assert.Equal(t, "x", None().Or("x"))
}

func TestAccount_Key(t *testing.T) {
	tests := []struct {
		name string
		acc  Account
		want string
	}{
		{"steam id wins", Account{Login: Some("a"), SteamID: Some("7656")}, "7656"},
		{"login fallback", Account{Login: Some("a")}, "a"},
		{"no identity", Account{Password: Some("p")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.acc.Key())
		})
	}
}

func TestMerge_NeverRegresses(t *testing.T) {
	stored := Account{
		Login:          Some("a"),
		Password:       Some("old"),
		Mail:           Some("m@x"),
		CredentialFile: Document(`{"account_name":"a"}`),
	}
	candidate := Account{
		Login:    Some("a"),
		Password: Some("new"),
		RCode:    Some("R123"),
	}

	merged := Merge(stored, candidate)

	assert.Equal(t, "new", merged.Password.Or(""))
	assert.Equal(t, "m@x", merged.Mail.Or(""))
	assert.Equal(t, "R123", merged.RCode.Or(""))
	assert.False(t, merged.MailPassword.Present())
	assert.JSONEq(t, `{"account_name":"a"}`, string(merged.CredentialFile))
}

func TestMerge_WithItselfIsIdentity(t *testing.T) {
	acc := Account{Login: Some("a"), Password: Some("b"), SteamID: Some("1"), Link: Some("l")}
	assert.Equal(t, acc, Merge(acc, acc))
}

func TestAccount_JSONWireFormat(t *testing.T) {
	acc := Account{
		Login:        Some("a"),
		Password:     Some("b"),
		Mail:         Some("c"),
		MailPassword: Some("d"),
	}

	b, err := json.Marshal(acc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"login":"a","password":"b","mail":"c","mail_password":"d",
		"r_code":"missing","steam_id":"","link":"","credential_file":{}
	}`, string(b))

	var back Account
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, acc.Login, back.Login)
	assert.False(t, back.RCode.Present())
	assert.False(t, back.HasCredentialFile())
}

func TestAccount_UnmarshalLegacyRecord(t *testing.T) {
	raw := `{"login":"a","password":"missing","mail":"missing","mail_password":"missing",
		"r_code":"R1","steam_id":76561198921334935,"link":"missing",
		"mafile":{"account_name":"a","Session":{"SteamID":76561198921334935}}}`

	var acc Account
	require.NoError(t, json.Unmarshal([]byte(raw), &acc))

	assert.Equal(t, "76561198921334935", acc.SteamID.Or(""))
	assert.False(t, acc.Password.Present())
	assert.False(t, acc.Link.Present())
	require.True(t, acc.HasCredentialFile())
	assert.Contains(t, string(acc.CredentialFile), `"account_name":"a"`)
}

func TestAccount_UnmarshalOddFieldTypes(t *testing.T) {
	raw := `{"login":"a","password":true,"mail":["x"],"r_code":false,"steam_id":{"id":1}}`

	var acc Account
	require.NoError(t, json.Unmarshal([]byte(raw), &acc))

	assert.Equal(t, "a", acc.Login.Or(""))
	assert.Equal(t, "true", acc.Password.Or(""))
	assert.Equal(t, "false", acc.RCode.Or(""))
	assert.False(t, acc.Mail.Present())
	assert.False(t, acc.SteamID.Present())
}

func TestAccount_Lines(t *testing.T) {
	acc := Account{Login: Some("a"), Password: Some("b"), Link: Some("https://x/profiles/1")}
	assert.Equal(t, "a:b:missing:missing", acc.CredentialsLine())
	assert.Equal(t, "a:b:missing:missing:https://x/profiles/1", acc.ManifestLine())
	assert.Contains(t, acc.Summary(), "R-code: missing\n")
}

func TestDocument_IsEmpty(t *testing.T) {
	assert.True(t, Document(nil).IsEmpty())
	assert.True(t, Document("null").IsEmpty())
	assert.True(t, Document(" {} ").IsEmpty())
	assert.False(t, Document(`{"a":1}`).IsEmpty())

	c, err := Document("{\n  \"b\": 2,\n  \"a\": 1\n}").Compact()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":1}`, string(c))
}
