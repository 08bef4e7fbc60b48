// Package menu builds the bot keyboards and formats account cards.
package menu

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
	"github.com/dmitrijs2005/steamkeeper/internal/models"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
)

// Reply keyboard button keys, in layout order.
const (
	BtnAccountList = "btn_account_list"
	BtnRefresh     = "btn_refresh"
	BtnImportZip   = "btn_import_zip"
	BtnDownloadAll = "btn_download_all"
	BtnASFConfigs  = "btn_asf_configs"
	BtnClearAll    = "btn_clear_all"
	BtnLanguage    = "btn_language"
	BtnHelp        = "btn_help"
)

// MainButtons lists every reply keyboard button key.
var MainButtons = []string{
	BtnAccountList, BtnRefresh,
	BtnImportZip, BtnDownloadAll,
	BtnASFConfigs, BtnClearAll,
	BtnLanguage, BtnHelp,
}

// Callback data.
const (
	CbPagePrefix     = "page_"
	CbAccountPrefix  = "account_"
	CbDownloadPrefix = "download_"
	CbDeletePrefix   = "delete_"
	CbLangPrefix     = "lang_"
	CbBackToList     = "back_to_list"
	CbBackToMain     = "back_to_main"
	CbConfirmClear   = "confirm_clear_all"
	CbCancelClear    = "cancel_clear_all"
)

func Keyboard(t *i18n.Catalog, lang string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(MainButtons); i += 2 {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(t.T(lang, MainButtons[i])),
			tgbotapi.NewKeyboardButton(t.T(lang, MainButtons[i+1])),
		))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// IsButton reports whether text is any main keyboard label in any language.
func IsButton(t *i18n.Catalog, text string) bool {
	for _, key := range MainButtons {
		if t.Match(text, key) {
			return true
		}
	}
	return false
}

// DefaultPageSize is used when no positive page size is configured.
const DefaultPageSize = 10

// Pages returns how many pages n accounts take.
func Pages(n, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if n == 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// AccountList renders one page of accounts with prev/next navigation and a
// main menu button. page is clamped to the valid range.
func AccountList(t *i18n.Catalog, lang string, accs []services.StoredAccount, page, perPage int) tgbotapi.InlineKeyboardMarkup {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	page = ClampPage(page, len(accs), perPage)
	start := page * perPage
	end := min(start+perPage, len(accs))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, sa := range accs[start:end] {
		label := sa.Account.Login.Or(sa.Key)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, CbAccountPrefix+sa.Key),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(t.T(lang, "btn_prev_page"), fmt.Sprintf("%s%d", CbPagePrefix, page-1)))
	}
	if end < len(accs) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(t.T(lang, "btn_next_page"), fmt.Sprintf("%s%d", CbPagePrefix, page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(t.T(lang, "btn_back_to_main"), CbBackToMain),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ClampPage keeps page within [0, last page].
func ClampPage(page, n, perPage int) int {
	last := Pages(n, perPage) - 1
	return max(0, min(page, last))
}

func AccountDetail(t *i18n.Catalog, lang, key string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(t.T(lang, "btn_download_account"), CbDownloadPrefix+key)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(t.T(lang, "btn_delete_account"), CbDeletePrefix+key)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(t.T(lang, "btn_back_to_list"), CbBackToList)),
	)
}

func ConfirmClear(t *i18n.Catalog, lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(t.T(lang, "btn_confirm_clear"), CbConfirmClear)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(t.T(lang, "btn_cancel_clear"), CbCancelClear)),
	)
}

func Languages() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range i18n.Languages {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(l.Name, CbLangPrefix+l.Code),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// FormatAccount renders the HTML account card. Values are escaped.
func FormatAccount(t *i18n.Catalog, lang string, acc models.Account) string {
	e := html.EscapeString
	return t.T(lang, "account_format",
		e(acc.Login.String()),
		e(acc.Password.String()),
		e(acc.Mail.String()),
		e(acc.MailPassword.String()),
		e(acc.RCode.String()),
		e(acc.SteamID.String()),
		e(acc.Link.String()),
	)
}
