package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/dmitrijs2005/steamkeeper/internal/bundle"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/models"
	"github.com/dmitrijs2005/steamkeeper/internal/parser"
	"github.com/dmitrijs2005/steamkeeper/internal/repositories/accounts"
)

const maFileA = `{"account_name":"a","revocation_code":"R777","Session":{"SteamID":"76561198921334935"}}`

func newTestService(t *testing.T) (AccountService, accounts.Repository) {
	t.Helper()
	repo := accounts.NewJSONRepository(zfilesystem.NewMemFS(), "accounts.json", logging.Discard())
	return NewAccountService(repo, logging.Discard(), bundle.Options{}), repo
}

// wire renders a record as it is persisted, so credential file whitespace
// does not affect comparisons.
func wire(t *testing.T, s accounts.Snapshot) map[string]string {
	t.Helper()
	out := map[string]string{}
	for k, acc := range s {
		b, err := acc.MarshalJSON()
		require.NoError(t, err)
		out[k] = string(b)
	}
	return out
}

func TestReconcile_InsertFromLine(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	acc, err := svc.ImportLine(ctx, "a:b:c:d")
	require.NoError(t, err)
	assert.Equal(t, "a", acc.Key())

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, snap, "a")

	b, err := snap["a"].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"login":"a","password":"b","mail":"c","mail_password":"d",
		"steam_id":"","link":"","r_code":"missing","credential_file":{}}`, string(b))
}

func TestReconcile_CredentialFileMergesIntoLoginKey(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, func(s accounts.Snapshot) error {
		s["a"] = models.Account{Login: models.Some("a"), Mail: models.Some("m@x")}
		return nil
	}))

	merged, err := svc.ImportMaFile(ctx, maFileA)
	require.NoError(t, err)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 1)
	stored, ok := snap["a"]
	require.True(t, ok, "record stays under its original key")

	assert.Equal(t, "m@x", stored.Mail.Or(""))
	assert.Equal(t, "R777", stored.RCode.Or(""))
	assert.Equal(t, "76561198921334935", stored.SteamID.Or(""))
	assert.True(t, stored.HasCredentialFile())
	assert.Equal(t, merged.RCode, stored.RCode)
}

func TestReconcile_LineFindsRecordBySteamIDField(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, func(s accounts.Snapshot) error {
		s["old"] = models.Account{Login: models.Some("old"), SteamID: models.Some("42")}
		return nil
	}))

	_, err := svc.ImportLine(ctx, "new:pw:m:mp:https://steamcommunity.com/profiles/42")
	require.NoError(t, err)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "new", snap["old"].Login.Or(""))
	assert.Equal(t, "pw", snap["old"].Password.Or(""))
}

func TestReconcile_SteamIDKeyWins(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportMaFile(ctx, maFileA)
	require.NoError(t, err)
	_, err = svc.ImportLine(ctx, "a:pw:mail:mp:https://steamcommunity.com/profiles/76561198921334935")
	require.NoError(t, err)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap, 1)

	stored := snap["76561198921334935"]
	assert.Equal(t, "pw", stored.Password.Or(""))
	assert.Equal(t, "R777", stored.RCode.Or(""))
	assert.Equal(t, "https://steamcommunity.com/profiles/76561198921334935", stored.Link.Or(""))
}

func TestReconcile_Idempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportMaFile(ctx, maFileA)
	require.NoError(t, err)
	once, err := repo.Load(ctx)
	require.NoError(t, err)

	_, err = svc.ImportMaFile(ctx, maFileA)
	require.NoError(t, err)
	twice, err := repo.Load(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(wire(t, once), wire(t, twice)); diff != "" {
		t.Fatalf("second reconcile changed the store (-once +twice):\n%s", diff)
	}
}

func TestReconcile_NoIdentity(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportMaFile(ctx, `{"shared_secret":"x"}`)
	require.ErrorIs(t, err, common.ErrNoIdentity)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestImport_InputErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportLine(ctx, "hello there")
	assert.ErrorIs(t, err, parser.ErrNotRecognized)

	_, err = svc.ImportMaFile(ctx, "{broken")
	assert.ErrorIs(t, err, parser.ErrMalformed)
}

func makeBundle(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestImportBundle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	data := makeBundle(t, map[string]string{
		"accounts.txt":      "a:b:c:d\nnot a line\ne:f:g:h\n",
		"mafile/a.maFile":   maFileA,
		"mafile/bad.maFile": "{",
	})

	report, err := svc.ImportBundle(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Accounts)
	assert.Equal(t, 1, report.MaFiles)
	assert.Len(t, report.Errors, 2)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	keys := make([]string, 0, len(list))
	for _, sa := range list {
		keys = append(keys, sa.Key)
	}
	assert.Equal(t, []string{"a", "e"}, keys)
	assert.Equal(t, "R777", list[0].Account.RCode.Or(""))
}

func TestImportBundle_Corrupt(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ImportBundle(context.Background(), []byte("nope"))
	assert.ErrorIs(t, err, bundle.ErrCorrupt)
}

func TestImportReport_Preview(t *testing.T) {
	r := ImportReport{}
	for i := 0; i < 8; i++ {
		r.Errors = append(r.Errors, fmt.Sprintf("e%d", i))
	}

	shown, rest := r.Preview(PreviewErrors)
	assert.Equal(t, []string{"e0", "e1", "e2", "e3", "e4"}, shown)
	assert.Equal(t, 3, rest)

	shown, rest = ImportReport{Errors: []string{"x"}}.Preview(PreviewErrors)
	assert.Equal(t, []string{"x"}, shown)
	assert.Zero(t, rest)
}

func TestDeleteAndClear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ImportLine(ctx, "a:b:c:d")
	require.NoError(t, err)
	_, err = svc.ImportLine(ctx, "e:f:g:h")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "a"))
	assert.ErrorIs(t, svc.Delete(ctx, "a"), common.ErrorNotFound)

	_, err = svc.Get(ctx, "e")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))
	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRoundTrip_BulkExportReimport(t *testing.T) {
	src, srcRepo := newTestService(t)
	ctx := context.Background()

	_, err := src.ImportMaFile(ctx, maFileA)
	require.NoError(t, err)
	_, err = src.ImportLine(ctx, "a:pw:mail:mp:https://steamcommunity.com/profiles/76561198921334935")
	require.NoError(t, err)
	_, err = src.ImportLine(ctx, "b:pw2:mail2:mp2:https://steamcommunity.com/profiles/99")
	require.NoError(t, err)
	_, err = src.ImportLine(ctx, "c:pw3:mail3:mp3")
	require.NoError(t, err)

	list, err := src.List(ctx)
	require.NoError(t, err)
	accs := make([]models.Account, 0, len(list))
	for _, sa := range list {
		accs = append(accs, sa.Account)
	}

	archive, err := export.NewBuilder().All(accs)
	require.NoError(t, err)

	dst, dstRepo := newTestService(t)
	report, err := dst.ImportBundle(ctx, archive.Data)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)

	want, err := srcRepo.Load(ctx)
	require.NoError(t, err)
	got, err := dstRepo.Load(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(wire(t, want), wire(t, got)); diff != "" {
		t.Fatalf("round trip changed the store (-want +got):\n%s", diff)
	}
}
