package handlers

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/steamkeeper/internal/bot/menu"
	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/bundle"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/parser"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
	"github.com/dmitrijs2005/steamkeeper/internal/textx"
)

// Document imports an uploaded .maFile or ZIP bundle.
type Document struct{}

func (h Document) Name() string { return "document" }

func (h Document) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return u.Message != nil && u.Message.Document != nil
}

func (h Document) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateMainMenu
	doc := u.Message.Document

	switch strings.ToLower(path.Ext(doc.FileName)) {
	case bundle.MaFileExt:
		data, ok, err := download(ctx, doc, s, d)
		if !ok {
			return err
		}
		return importMaFile(ctx, data, s, d)
	case ".zip":
		data, ok, err := download(ctx, doc, s, d)
		if !ok {
			return err
		}
		return importBundle(ctx, data, s, d)
	default:
		return reply(s, d, d.T(s, "unsupported_file"))
	}
}

// download fetches a document. When ok is false the user has been told why
// and err, if any, is for the update loop.
func download(ctx context.Context, doc *tgbotapi.Document, s *router.Session, d router.Deps) ([]byte, bool, error) {
	if d.Cfg.MaxUploadSize > 0 && int64(doc.FileSize) > d.Cfg.MaxUploadSize {
		d.Log.Warn(ctx, "upload rejected", "file", doc.FileName, "size", doc.FileSize)
		return nil, false, reply(s, d, d.T(s, "file_too_large"))
	}

	data, err := d.Files.Download(ctx, doc.FileID)
	if errors.Is(err, router.ErrTooLarge) {
		return nil, false, reply(s, d, d.T(s, "file_too_large"))
	}
	if err != nil {
		_ = reply(s, d, d.T(s, "download_error"))
		return nil, false, fmt.Errorf("download %s: %w", doc.FileName, err)
	}
	return data, true, nil
}

func importMaFile(ctx context.Context, data []byte, s *router.Session, d router.Deps) error {
	content, err := textx.Decode(data)
	if err != nil {
		return reply(s, d, d.T(s, "encoding_error"))
	}

	acc, err := d.Accounts.ImportMaFile(ctx, content)
	switch {
	case errors.Is(err, parser.ErrMalformed):
		return reply(s, d, d.T(s, "mafile_error"))
	case errors.Is(err, common.ErrNoIdentity):
		return reply(s, d, d.T(s, "no_identity"))
	case err != nil:
		return failed(s, d, "import mafile", err)
	}

	d.Log.Info(ctx, "mafile imported", "key", acc.Key())
	return replyHTML(s, d, menu.FormatAccount(d.Texts, s.Lang, acc), nil)
}

func importBundle(ctx context.Context, data []byte, s *router.Session, d router.Deps) error {
	report, err := d.Accounts.ImportBundle(ctx, data)
	if errors.Is(err, bundle.ErrCorrupt) {
		return reply(s, d, d.T(s, "zip_corrupt"))
	}
	if err != nil {
		return failed(s, d, "import bundle", err)
	}
	return reply(s, d, bundleSummary(s, d, report))
}

func bundleSummary(s *router.Session, d router.Deps, r *services.ImportReport) string {
	var b strings.Builder
	b.WriteString(d.T(s, "zip_processed") + "\n\n")
	b.WriteString(d.T(s, "accounts_processed", r.Accounts) + "\n")
	b.WriteString(d.T(s, "mafiles_processed", r.MaFiles) + "\n")

	shown, rest := r.Preview(services.PreviewErrors)
	if len(shown) > 0 {
		b.WriteString("\n" + d.T(s, "errors_processing") + "\n")
		for _, e := range shown {
			b.WriteString("- " + e + "\n")
		}
		if rest > 0 {
			b.WriteString(d.T(s, "more_errors", rest))
		}
	}
	return b.String()
}
