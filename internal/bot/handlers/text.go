package handlers

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/steamkeeper/internal/bot/menu"
	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
	"github.com/dmitrijs2005/steamkeeper/internal/parser"
)

// TextLine imports free text as an account line.
type TextLine struct {
	Texts *i18n.Catalog
}

func (h TextLine) Name() string { return "text_line" }

func (h TextLine) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return plainText(u, h.Texts)
}

func (h TextLine) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateMainMenu

	acc, err := d.Accounts.ImportLine(ctx, strings.TrimSpace(u.Message.Text))
	switch {
	case errors.Is(err, parser.ErrNotRecognized):
		return replyHTML(s, d, d.T(s, "invalid_format"), nil)
	case errors.Is(err, common.ErrNoIdentity):
		return reply(s, d, d.T(s, "no_identity"))
	case err != nil:
		return failed(s, d, "import line", err)
	}

	d.Log.Info(ctx, "account line imported", "key", acc.Key())
	return replyHTML(s, d, menu.FormatAccount(d.Texts, s.Lang, acc), nil)
}
