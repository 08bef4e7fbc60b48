package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/zarlcorp/core/pkg/zfilesystem"

	"github.com/dmitrijs2005/steamkeeper/internal/bundle"
	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
	"github.com/dmitrijs2005/steamkeeper/internal/textx"
)

// Console runs admin commands. Relative file arguments are resolved inside
// files; absolute ones and those leaving it through ".." go to a filesystem
// opened at the file's directory.
type Console struct {
	accounts services.AccountService
	export   *export.Builder
	files    zfilesystem.ReadWriteFileFS
	open     func(dir string) zfilesystem.ReadWriteFileFS
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

func New(accounts services.AccountService, exp *export.Builder, files zfilesystem.ReadWriteFileFS, log logging.Logger, in io.Reader, out io.Writer) *Console {
	return &Console{
		accounts: accounts,
		export:   exp,
		files:    files,
		open:     func(dir string) zfilesystem.ReadWriteFileFS { return zfilesystem.NewOSFileSystem(dir) },
		log:      log,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run reads commands until EOF or exit. prompt is printed before each
// command; pass "" when input is not a terminal.
func (c *Console) Run(ctx context.Context, prompt string) {
	runREPL(ctx, c, c.reader, c.out, prompt)
}

// ask returns v, or prompts for it when empty.
func (c *Console) ask(v, prompt string) (string, error) {
	if v != "" {
		return v, nil
	}
	v, err := GetSimpleText(c.reader, prompt, c.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", errors.New("no value entered")
	}
	return v, nil
}

// resolve returns the filesystem and name to use for a file argument.
func (c *Console) resolve(file string) (zfilesystem.ReadWriteFileFS, string, error) {
	clean := filepath.Clean(file)
	if !filepath.IsAbs(clean) && clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return c.files, filepath.ToSlash(clean), nil
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", file, err)
	}
	return c.open(filepath.Dir(abs)), filepath.Base(abs), nil
}

func (c *Console) readFile(file string) ([]byte, error) {
	fsys, name, err := c.resolve(file)
	if err != nil {
		return nil, err
	}
	data, err := fsys.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}

func (c *Console) List(ctx context.Context) error {
	list, err := c.accounts.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No accounts stored")
		return nil
	}
	for _, sa := range list {
		mark := ""
		if sa.Account.HasCredentialFile() {
			mark = "\t[maFile]"
		}
		fmt.Fprintf(c.out, "%s\t%s%s\n", sa.Key, sa.Account.Login, mark)
	}
	return nil
}

func (c *Console) Show(ctx context.Context, key string) error {
	key, err := c.ask(key, "Enter account key")
	if err != nil {
		return err
	}
	acc, err := c.accounts.Get(ctx, key)
	if err != nil {
		return err
	}
	fmt.Fprint(c.out, acc.Summary())
	fmt.Fprintf(c.out, "maFile: %t\n", acc.HasCredentialFile())
	return nil
}

func (c *Console) Add(ctx context.Context, line string) error {
	line, err := c.ask(line, "Enter login:password:mail:mail_password[:link]")
	if err != nil {
		return err
	}
	acc, err := c.accounts.ImportLine(ctx, line)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Saved", acc.Key())
	return nil
}

// Import loads a .zip bundle, a .maFile or a text file with one account
// line per row.
func (c *Console) Import(ctx context.Context, file string) error {
	file, err := c.ask(file, "Enter file to import")
	if err != nil {
		return err
	}
	data, err := c.readFile(file)
	if err != nil {
		return err
	}

	switch strings.ToLower(path.Ext(file)) {
	case ".zip":
		report, err := c.accounts.ImportBundle(ctx, data)
		if err != nil {
			return err
		}
		c.printReport(report)
		return nil
	case bundle.MaFileExt:
		content, err := textx.Decode(data)
		if err != nil {
			return err
		}
		acc, err := c.accounts.ImportMaFile(ctx, content)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Saved", acc.Key())
		return nil
	default:
		content, err := textx.Decode(data)
		if err != nil {
			return err
		}
		report := &services.ImportReport{}
		for _, line := range strings.Split(content, "\n") {
			if line = strings.TrimSpace(line); line == "" {
				continue
			}
			if _, err := c.accounts.ImportLine(ctx, line); err != nil {
				if !services.IsInputError(err) {
					return err
				}
				report.Errors = append(report.Errors, fmt.Sprintf("line %q: %v", line, err))
				continue
			}
			report.Accounts++
		}
		c.printReport(report)
		return nil
	}
}

func (c *Console) printReport(r *services.ImportReport) {
	fmt.Fprintf(c.out, "Accounts imported: %d\n", r.Accounts)
	fmt.Fprintf(c.out, "maFiles imported: %d\n", r.MaFiles)
	shown, rest := r.Preview(services.PreviewErrors)
	for _, e := range shown {
		fmt.Fprintln(c.out, "-", e)
	}
	if rest > 0 {
		fmt.Fprintf(c.out, "... and %d more errors\n", rest)
	}
}

// Export writes one account when key is set, otherwise the whole store.
func (c *Console) Export(ctx context.Context, file, key string) error {
	file, err := c.ask(file, "Enter output .zip file")
	if err != nil {
		return err
	}

	var archive *export.Archive
	if key != "" {
		acc, err := c.accounts.Get(ctx, key)
		if err != nil {
			return err
		}
		archive, err = c.export.Account(acc)
		if err != nil {
			return err
		}
	} else {
		list, err := c.accounts.List(ctx)
		if err != nil {
			return err
		}
		archive, err = c.export.All(services.Records(list))
		if err != nil {
			return err
		}
	}
	return c.write(file, archive)
}

func (c *Console) ASF(ctx context.Context, template, file string) error {
	template, err := c.ask(template, "Enter ASF template .json file")
	if err != nil {
		return err
	}
	file, err = c.ask(file, "Enter output .zip file")
	if err != nil {
		return err
	}

	data, err := c.readFile(template)
	if err != nil {
		return err
	}
	text, err := textx.Decode(data)
	if err != nil {
		return err
	}

	list, err := c.accounts.List(ctx)
	if err != nil {
		return err
	}
	archive, err := c.export.ASFConfigs(services.Records(list), text)
	if err != nil {
		return err
	}
	return c.write(file, archive)
}

func (c *Console) write(file string, a *export.Archive) error {
	fsys, name, err := c.resolve(file)
	if err != nil {
		return err
	}
	if dir := path.Dir(name); dir != "." {
		if err := fsys.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	if err := fsys.WriteFile(name, a.Data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	fmt.Fprintf(c.out, "Wrote %s (%d files)\n", file, len(a.Members))
	return nil
}

func (c *Console) Delete(ctx context.Context, key string) error {
	key, err := c.ask(key, "Enter account key to delete")
	if err != nil {
		return err
	}
	if err := c.accounts.Delete(ctx, key); err != nil {
		return err
	}
	c.log.Info(ctx, "account deleted from console", "key", key)
	fmt.Fprintln(c.out, "Deleted", key)
	return nil
}

func (c *Console) Clear(ctx context.Context) error {
	if !Confirm(c.reader, "Delete ALL accounts?", c.out) {
		fmt.Fprintln(c.out, "Cancelled")
		return nil
	}
	if err := c.accounts.Clear(ctx); err != nil {
		return err
	}
	c.log.Warn(ctx, "store cleared from console")
	fmt.Fprintln(c.out, "All accounts deleted")
	return nil
}

func (c *Console) Count(ctx context.Context) error {
	n, err := c.accounts.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, n)
	return nil
}
