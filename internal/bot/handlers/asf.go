package handlers

import (
	"context"
	"errors"
	"path"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/steamkeeper/internal/bot/menu"
	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
	"github.com/dmitrijs2005/steamkeeper/internal/textx"
)

type ASFStart struct {
	Texts *i18n.Catalog
}

func (h ASFStart) Name() string { return "asf_start" }

func (h ASFStart) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isButton(u, h.Texts, menu.BtnASFConfigs)
}

func (h ASFStart) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateWaitingTemplate
	return reply(s, d, d.T(s, "send_asf_template"))
}

// ASFTemplate takes the config template, as text or as a .json document,
// while the session waits for one.
type ASFTemplate struct {
	Texts *i18n.Catalog
}

func (h ASFTemplate) Name() string { return "asf_template" }

func (h ASFTemplate) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	if s.State != router.StateWaitingTemplate {
		return false
	}
	return plainText(u, h.Texts) || isJSONDocument(u)
}

func isJSONDocument(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Document != nil &&
		strings.EqualFold(path.Ext(u.Message.Document.FileName), ".json")
}

func (h ASFTemplate) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateMainMenu

	template := strings.TrimSpace(u.Message.Text)
	if u.Message.Document != nil {
		data, ok, err := download(ctx, u.Message.Document, s, d)
		if !ok {
			return err
		}
		template, err = textx.Decode(data)
		if err != nil {
			return reply(s, d, d.T(s, "encoding_error"))
		}
	}

	accs, err := d.Accounts.List(ctx)
	if err != nil {
		return failed(s, d, "list accounts", err)
	}

	archive, err := d.Export.ASFConfigs(services.Records(accs), template)
	switch {
	case errors.Is(err, export.ErrInvalidTemplate):
		return reply(s, d, d.T(s, "invalid_json"))
	case errors.Is(err, export.ErrNothingToExport):
		return reply(s, d, d.T(s, "asf_configs_error"))
	case err != nil:
		return failed(s, d, "build asf configs", err)
	}

	d.Log.Info(ctx, "asf configs generated", "members", len(archive.Members))
	return sendArchive(s, d, archive, d.T(s, "asf_configs_generated"))
}
