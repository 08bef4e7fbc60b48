package console

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/dmitrijs2005/steamkeeper/internal/bundle"
	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/models"
	"github.com/dmitrijs2005/steamkeeper/internal/repositories/accounts"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
)

type env struct {
	svc   services.AccountService
	files zfilesystem.ReadWriteFileFS
	out   *bytes.Buffer
}

func newConsole(t *testing.T, input string) (*Console, env) {
	t.Helper()
	repo := accounts.NewJSONRepository(zfilesystem.NewMemFS(), "accounts.json", logging.Discard())
	e := env{
		svc:   services.NewAccountService(repo, logging.Discard(), bundle.Options{}),
		files: zfilesystem.NewMemFS(),
		out:   &bytes.Buffer{},
	}
	c := New(e.svc, export.NewBuilder(), e.files, logging.Discard(), strings.NewReader(input), e.out)
	return c, e
}

func TestConsole_AddListShow(t *testing.T) {
	c, e := newConsole(t, "")
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "alice:pw:m:mp"))
	require.NoError(t, c.List(ctx))
	require.NoError(t, c.Show(ctx, "alice"))

	out := e.out.String()
	assert.Contains(t, out, "Saved alice")
	assert.Contains(t, out, "alice\talice\n")
	assert.Contains(t, out, "Password: pw\n")
	assert.Contains(t, out, "maFile: false")
}

func TestConsole_ShowPromptsForKey(t *testing.T) {
	c, e := newConsole(t, "alice\n")
	ctx := context.Background()
	_, err := e.svc.ImportLine(ctx, "alice:pw:m:mp")
	require.NoError(t, err)

	require.NoError(t, c.Show(ctx, ""))
	assert.Contains(t, e.out.String(), "Enter account key")
	assert.Contains(t, e.out.String(), "Login: alice")
}

func TestConsole_ImportTextFile(t *testing.T) {
	c, e := newConsole(t, "")
	require.NoError(t, e.files.WriteFile("lines.txt", []byte("a:b:c:d\n\nbroken\nx:y:z:w\n"), 0o600))

	require.NoError(t, c.Import(context.Background(), "lines.txt"))

	n, err := e.svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, e.out.String(), "Accounts imported: 2")
	assert.Contains(t, e.out.String(), `- line "broken"`)
}

type failingWrites struct {
	services.AccountService
	err error
}

func (f failingWrites) ImportLine(context.Context, string) (models.Account, error) {
	return models.Account{}, f.err
}

func TestConsole_ImportTextFileStopsOnStoreError(t *testing.T) {
	c, e := newConsole(t, "")
	storeErr := errors.New("disk full")
	c.accounts = failingWrites{AccountService: e.svc, err: storeErr}
	require.NoError(t, e.files.WriteFile("lines.txt", []byte("a:b:c:d\nx:y:z:w\n"), 0o600))

	err := c.Import(context.Background(), "lines.txt")
	assert.ErrorIs(t, err, storeErr)
	assert.NotContains(t, e.out.String(), "Accounts imported")
}

func TestConsole_PathsOutsideWorkingDir(t *testing.T) {
	c, e := newConsole(t, "")
	ctx := context.Background()

	outside := map[string]zfilesystem.ReadWriteFileFS{}
	c.open = func(dir string) zfilesystem.ReadWriteFileFS {
		if _, ok := outside[dir]; !ok {
			outside[dir] = zfilesystem.NewMemFS()
		}
		return outside[dir]
	}

	src := filepath.Join(string(filepath.Separator), "tmp", "in")
	in := zfilesystem.NewMemFS()
	outside[src] = in
	require.NoError(t, in.WriteFile("lines.txt", []byte("a:b:c:d\n"), 0o600))

	require.NoError(t, c.Import(ctx, filepath.Join(src, "lines.txt")))
	n, err := e.svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, c.Export(ctx, filepath.Join("..", "all.zip"), ""))
	parent, err := filepath.Abs("..")
	require.NoError(t, err)
	require.Contains(t, outside, parent)
	_, err = outside[parent].ReadFile("all.zip")
	assert.NoError(t, err)

	_, err = e.files.ReadFile("all.zip")
	assert.Error(t, err)
}

func TestConsole_ImportMaFile(t *testing.T) {
	c, e := newConsole(t, "")
	require.NoError(t, e.files.WriteFile("a.maFile", []byte(`{"account_name":"a","Session":{"SteamID":"765"}}`), 0o600))

	require.NoError(t, c.Import(context.Background(), "a.maFile"))
	assert.Contains(t, e.out.String(), "Saved 765")
}

func TestConsole_ExportThenImportBundle(t *testing.T) {
	c, e := newConsole(t, "")
	ctx := context.Background()
	_, err := e.svc.ImportLine(ctx, "a:b:c:d")
	require.NoError(t, err)
	_, err = e.svc.ImportMaFile(ctx, `{"account_name":"e","Session":{"SteamID":"765"}}`)
	require.NoError(t, err)

	require.NoError(t, c.Export(ctx, "out/all.zip", ""))
	require.NoError(t, c.Export(ctx, "out/one.zip", "765"))

	one, err := e.files.ReadFile("out/one.zip")
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(one), int64(len(one)))
	require.NoError(t, err)
	assert.Len(t, zr.File, 2)

	require.NoError(t, e.svc.Clear(ctx))
	require.NoError(t, c.Import(ctx, "out/all.zip"))

	n, err := e.svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, e.out.String(), "maFiles imported: 1")
}

func TestConsole_ASF(t *testing.T) {
	c, e := newConsole(t, "")
	ctx := context.Background()
	_, err := e.svc.ImportMaFile(ctx, `{"account_name":"e","Session":{"SteamID":"765"}}`)
	require.NoError(t, err)
	require.NoError(t, e.files.WriteFile("tpl.json", []byte(`{"Enabled":true}`), 0o600))

	require.NoError(t, c.ASF(ctx, "tpl.json", "asf.zip"))

	_, err = e.files.ReadFile("asf.zip")
	assert.NoError(t, err)
}

func TestConsole_DeleteAndClear(t *testing.T) {
	c, e := newConsole(t, "no\nyes\n")
	ctx := context.Background()
	for _, l := range []string{"a:b:c:d", "x:y:z:w"} {
		_, err := e.svc.ImportLine(ctx, l)
		require.NoError(t, err)
	}

	require.NoError(t, c.Delete(ctx, "a"))
	assert.Error(t, c.Delete(ctx, "a"))

	require.NoError(t, c.Clear(ctx))
	n, err := e.svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, c.Clear(ctx))
	n, err = e.svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConsole_Run(t *testing.T) {
	c, e := newConsole(t, "add a:b:c:d\ncount\nexit\n")
	c.Run(context.Background(), "")
	assert.Contains(t, e.out.String(), "Saved a\n1\nBye!")
}
