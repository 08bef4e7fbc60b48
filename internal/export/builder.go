package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/steamkeeper/internal/bundle"
	"github.com/dmitrijs2005/steamkeeper/internal/models"
)

const (
	BulkArchiveName = "accounts.zip"
	ASFArchiveName  = "asf_configs.zip"

	// Keys ArchiSteamFarm reads the bot credentials from.
	ASFLoginKey    = "SteamLogin"
	ASFPasswordKey = "SteamPassword"
)

var (
	// ErrNothingToExport means there were no records to put in the archive.
	ErrNothingToExport = errors.New("nothing to export")
	// ErrInvalidTemplate means the ASF template is not a JSON object.
	ErrInvalidTemplate = errors.New("invalid config template")
)

// Builder renders records into archives. The zero value is ready to use.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// Account packs one record: <login>.txt with the credentials line and a
// labeled dump, plus <login>.maFile when a credential file is attached.
func (b *Builder) Account(acc models.Account) (*Archive, error) {
	base := memberBase(acc)
	w := newArchiveWriter()

	text := acc.CredentialsLine() + "\n\n" + acc.Summary()
	if err := w.add(base+".txt", []byte(text)); err != nil {
		return nil, err
	}
	if err := addMaFile(w, "", base, acc); err != nil {
		return nil, err
	}
	return w.finish(base + ".zip")
}

// All packs every record in the bundle layout: accounts.txt with one
// manifest line per record and mafile/<login>.maFile per credential file.
func (b *Builder) All(accs []models.Account) (*Archive, error) {
	if len(accs) == 0 {
		return nil, ErrNothingToExport
	}
	accs = sortByKey(accs)

	var manifest strings.Builder
	for _, acc := range accs {
		manifest.WriteString(acc.ManifestLine())
		manifest.WriteByte('\n')
	}

	w := newArchiveWriter()
	if err := w.add(bundle.ManifestName, []byte(manifest.String())); err != nil {
		return nil, err
	}
	for _, acc := range accs {
		if err := addMaFile(w, bundle.MaFileDir, memberBase(acc), acc); err != nil {
			return nil, err
		}
	}
	return w.finish(BulkArchiveName)
}

// ASFConfigs renders template once per record that has both login and
// password, setting SteamLogin and SteamPassword. Other records are skipped,
// so a store without such records yields an empty archive.
func (b *Builder) ASFConfigs(accs []models.Account, template string) (*Archive, error) {
	tpl, err := parseObject([]byte(strings.TrimSpace(template)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if len(accs) == 0 {
		return nil, ErrNothingToExport
	}

	w := newArchiveWriter()
	for _, acc := range sortByKey(accs) {
		login, okLogin := acc.Login.Get()
		password, okPassword := acc.Password.Get()
		if !okLogin || !okPassword {
			continue
		}

		cfg := tpl.clone()
		cfg.setString(ASFLoginKey, login)
		cfg.setString(ASFPasswordKey, password)

		data, err := cfg.indent()
		if err != nil {
			return nil, fmt.Errorf("render config for %s: %w", login, err)
		}

		base := memberBase(acc)
		if err := w.add(base+".json", data); err != nil {
			return nil, err
		}
		if err := addMaFile(w, "", base, acc); err != nil {
			return nil, err
		}
	}
	return w.finish(ASFArchiveName)
}

func addMaFile(w *archiveWriter, dir, base string, acc models.Account) error {
	if !acc.HasCredentialFile() {
		return nil
	}
	data, err := acc.CredentialFile.Compact()
	if err != nil {
		return fmt.Errorf("compact credential file of %s: %w", acc.Key(), err)
	}
	return w.add(dir+base+".maFile", data)
}

// memberBase names members after the login, or the key when the login is
// unknown.
func memberBase(acc models.Account) string {
	return fileBase(acc.Login.Or(acc.Key()))
}

func sortByKey(accs []models.Account) []models.Account {
	out := append([]models.Account(nil), accs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
