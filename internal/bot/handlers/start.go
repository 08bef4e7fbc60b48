package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/steamkeeper/internal/bot/menu"
	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
)

type Start struct{}

func (h Start) Name() string { return "start" }

func (h Start) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isCommand(u, "start")
}

func (h Start) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateMainMenu
	return reply(s, d, d.T(s, "welcome"))
}

type Help struct {
	Texts *i18n.Catalog
}

func (h Help) Name() string { return "help" }

func (h Help) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isCommand(u, "help") || isButton(u, h.Texts, menu.BtnHelp)
}

func (h Help) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateMainMenu
	return replyHTML(s, d, d.T(s, "help_text"), nil)
}

// Config shows the language settings.
type Config struct{}

func (h Config) Name() string { return "config" }

func (h Config) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isCommand(u, "config")
}

func (h Config) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateMainMenu

	def := d.Texts.DefaultLanguage()
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n\n", d.T(s, "config_title"))
	fmt.Fprintf(&b, "<b>%s</b>\n", d.T(s, "default_language", def, i18n.LanguageName(def)))
	fmt.Fprintf(&b, "<b>%s</b>\n\n", d.T(s, "current_language", s.Lang, i18n.LanguageName(s.Lang)))
	fmt.Fprintf(&b, "<b>%s</b>\n", d.T(s, "available_languages"))
	for _, l := range i18n.Languages {
		fmt.Fprintf(&b, "%s\n", d.T(s, "language_item", l.Code, l.Name))
	}

	return replyHTML(s, d, b.String(), nil)
}

type Refresh struct {
	Texts *i18n.Catalog
}

func (h Refresh) Name() string { return "refresh" }

func (h Refresh) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isButton(u, h.Texts, menu.BtnRefresh)
}

func (h Refresh) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateMainMenu
	return reply(s, d, d.T(s, "data_updated"))
}

type ImportZipPrompt struct {
	Texts *i18n.Catalog
}

func (h ImportZipPrompt) Name() string { return "import_zip" }

func (h ImportZipPrompt) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isButton(u, h.Texts, menu.BtnImportZip)
}

func (h ImportZipPrompt) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateMainMenu
	return reply(s, d, d.T(s, "send_zip"))
}

type BackToMain struct{}

func (h BackToMain) Name() string { return "back_to_main" }

func (h BackToMain) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isCallback(u, menu.CbBackToMain)
}

func (h BackToMain) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	answer(ctx, u, d)
	s.State = router.StateMainMenu

	if err := edit(u, s, d, d.T(s, "back_to_main"), nil); err != nil {
		d.Log.Warn(ctx, "failed to edit message", "error", err)
	}
	return reply(s, d, d.T(s, "main_menu"))
}
