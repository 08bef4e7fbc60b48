package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/steamkeeper/internal/bot/menu"
	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
)

// reply sends text with the main keyboard attached.
func reply(s *router.Session, d router.Deps, text string) error {
	msg := tgbotapi.NewMessage(s.ChatID, text)
	msg.ReplyMarkup = menu.Keyboard(d.Texts, s.Lang)
	_, err := d.Bot.Send(msg)
	return err
}

func replyHTML(s *router.Session, d router.Deps, text string, markup any) error {
	msg := tgbotapi.NewMessage(s.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup == nil {
		markup = menu.Keyboard(d.Texts, s.Lang)
	}
	msg.ReplyMarkup = markup
	_, err := d.Bot.Send(msg)
	return err
}

// edit replaces the text of the message a callback came from.
func edit(u tgbotapi.Update, s *router.Session, d router.Deps, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msgID := u.CallbackQuery.Message.MessageID
	var cfg tgbotapi.EditMessageTextConfig
	if markup != nil {
		cfg = tgbotapi.NewEditMessageTextAndMarkup(s.ChatID, msgID, text, *markup)
	} else {
		cfg = tgbotapi.NewEditMessageText(s.ChatID, msgID, text)
	}
	cfg.ParseMode = tgbotapi.ModeHTML
	_, err := d.Bot.Send(cfg)
	return err
}

// answer acknowledges a callback query so the client stops its spinner.
func answer(ctx context.Context, u tgbotapi.Update, d router.Deps) {
	if _, err := d.Bot.Request(tgbotapi.NewCallback(u.CallbackQuery.ID, "")); err != nil {
		d.Log.Warn(ctx, "failed to answer callback", "error", err)
	}
}

func sendArchive(s *router.Session, d router.Deps, a *export.Archive, caption string) error {
	doc := tgbotapi.NewDocument(s.ChatID, tgbotapi.FileBytes{Name: a.Name, Bytes: a.Data})
	doc.Caption = caption
	doc.ReplyMarkup = menu.Keyboard(d.Texts, s.Lang)
	_, err := d.Bot.Send(doc)
	return err
}

func isCallback(u tgbotapi.Update, data string) bool {
	return u.CallbackQuery != nil && u.CallbackQuery.Message != nil && u.CallbackQuery.Data == data
}

func hasCallbackPrefix(u tgbotapi.Update, prefix string) bool {
	return u.CallbackQuery != nil && u.CallbackQuery.Message != nil &&
		strings.HasPrefix(u.CallbackQuery.Data, prefix) && u.CallbackQuery.Data != prefix
}

func isCommand(u tgbotapi.Update, cmd string) bool {
	return u.Message != nil && u.Message.IsCommand() && u.Message.Command() == cmd
}

// isButton reports whether the message is the main keyboard button key, in
// any language.
func isButton(u tgbotapi.Update, t *i18n.Catalog, key string) bool {
	return u.Message != nil && u.Message.Document == nil && t.Match(strings.TrimSpace(u.Message.Text), key)
}

// plainText reports a non-command text message that is not a keyboard button.
func plainText(u tgbotapi.Update, t *i18n.Catalog) bool {
	return u.Message != nil && u.Message.Document == nil && !u.Message.IsCommand() &&
		strings.TrimSpace(u.Message.Text) != "" && !menu.IsButton(t, strings.TrimSpace(u.Message.Text))
}

// failed tells the user the store is unavailable and returns err for the
// update loop to log.
func failed(s *router.Session, d router.Deps, op string, err error) error {
	_ = reply(s, d, d.T(s, "storage_error"))
	return fmt.Errorf("%s: %w", op, err)
}
