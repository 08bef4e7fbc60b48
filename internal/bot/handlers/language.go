package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/steamkeeper/internal/bot/menu"
	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
)

type LanguageMenu struct {
	Texts *i18n.Catalog
}

func (h LanguageMenu) Name() string { return "language_menu" }

func (h LanguageMenu) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isButton(u, h.Texts, menu.BtnLanguage)
}

func (h LanguageMenu) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	msg := tgbotapi.NewMessage(s.ChatID, d.T(s, "select_language"))
	msg.ReplyMarkup = menu.Languages()
	_, err := d.Bot.Send(msg)
	return err
}

type LanguageChosen struct{}

func (h LanguageChosen) Name() string { return "language_chosen" }

func (h LanguageChosen) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return hasCallbackPrefix(u, menu.CbLangPrefix)
}

func (h LanguageChosen) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	answer(ctx, u, d)

	code := strings.TrimPrefix(u.CallbackQuery.Data, menu.CbLangPrefix)
	if !i18n.Supported(code) {
		return edit(u, s, d, d.T(s, "unsupported_language"), nil)
	}

	s.Lang = code
	s.State = router.StateMainMenu
	if err := edit(u, s, d, d.T(s, "language_changed"), nil); err != nil {
		return err
	}
	return reply(s, d, d.T(s, "choose_action"))
}
