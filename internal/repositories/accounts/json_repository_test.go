package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/models"
)

const storeFile = "data/accounts.json"

func newTestRepo(t *testing.T) (*JSONRepository, *zfilesystem.MemFS) {
	t.Helper()
	fs := zfilesystem.NewMemFS()
	return NewJSONRepository(fs, storeFile, logging.Discard()), fs
}

func TestLoad_CreatesMissingFile(t *testing.T) {
	r, fs := newTestRepo(t)

	s, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s)

	data, err := fs.ReadFile(storeFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestLoad_ResetsCorruptFile(t *testing.T) {
	for _, content := range []string{"{not json", "null", "[]"} {
		t.Run(content, func(t *testing.T) {
			r, fs := newTestRepo(t)
			require.NoError(t, fs.MkdirAll("data", 0o700))
			require.NoError(t, fs.WriteFile(storeFile, []byte(content), 0o600))

			s, err := r.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, s)

			data, err := fs.ReadFile(storeFile)
			require.NoError(t, err)
			assert.JSONEq(t, `{}`, string(data))
		})
	}
}

func TestLoad_KeepsRecordsAroundUnreadableOne(t *testing.T) {
	r, fs := newTestRepo(t)
	require.NoError(t, fs.MkdirAll("data", 0o700))
	content := `{
  "a": {"login": "a", "password": "pa"},
  "b": {"login": "b", "r_code": false, "link": {"x": 1}},
  "c": "not a record"
}`
	require.NoError(t, fs.WriteFile(storeFile, []byte(content), 0o600))

	s, err := r.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, "pa", s["a"].Password.Or(""))
	assert.Equal(t, "false", s["b"].RCode.Or(""))
	assert.False(t, s["b"].Link.Present())

	data, err := fs.ReadFile(storeFile)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestUpdate_PersistsIndentedJSON(t *testing.T) {
	r, fs := newTestRepo(t)
	ctx := context.Background()

	acc := models.Account{Login: models.Some("alice"), Password: models.Some("pw")}
	require.NoError(t, r.Update(ctx, func(s Snapshot) error {
		s[acc.Key()] = acc
		return nil
	}))

	data, err := fs.ReadFile(storeFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"alice\": {\n    \"login\": \"alice\""), string(data))

	got, err := r.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, acc.Login, got.Login)
	assert.Equal(t, acc.Password, got.Password)
	assert.False(t, got.Mail.Present())
}

func TestUpdate_ErrorSkipsWrite(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := r.Update(ctx, func(s Snapshot) error {
		s["x"] = models.Account{Login: models.Some("x")}
		return boom
	})
	require.ErrorIs(t, err, boom)

	s, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestGet_NotFound(t *testing.T) {
	r, _ := newTestRepo(t)

	_, err := r.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteAndClear(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Update(ctx, func(s Snapshot) error {
		s["a"] = models.Account{Login: models.Some("a")}
		s["b"] = models.Account{Login: models.Some("b")}
		return nil
	}))

	require.NoError(t, r.Delete(ctx, "a"))
	assert.ErrorIs(t, r.Delete(ctx, "a"), common.ErrorNotFound)

	s, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, s, 1)
	assert.Contains(t, s, "b")

	require.NoError(t, r.Clear(ctx))
	s, err = r.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestLoad_PreservesCredentialFile(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	payload := `{"shared_secret":"s","account_name":"a","Session":{"SteamID":7656}}`
	require.NoError(t, r.Update(ctx, func(s Snapshot) error {
		s["7656"] = models.Account{Login: models.Some("a"), SteamID: models.Some("7656"), CredentialFile: models.Document(payload)}
		return nil
	}))

	got, err := r.Get(ctx, "7656")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(got.CredentialFile))
}
