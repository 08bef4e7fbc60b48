package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/steamkeeper/internal/bot/menu"
	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
)

// AccountList shows the paged account list, from the keyboard button or a
// page_<n> callback.
type AccountList struct {
	Texts *i18n.Catalog
}

func (h AccountList) Name() string { return "account_list" }

func (h AccountList) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isButton(u, h.Texts, menu.BtnAccountList) || hasCallbackPrefix(u, menu.CbPagePrefix)
}

func (h AccountList) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	if u.CallbackQuery == nil {
		s.Page = 0
		return showList(ctx, u, s, d, false)
	}

	answer(ctx, u, d)
	page, err := strconv.Atoi(strings.TrimPrefix(u.CallbackQuery.Data, menu.CbPagePrefix))
	if err != nil {
		return nil
	}
	s.Page = page
	return showList(ctx, u, s, d, true)
}

// showList renders page s.Page, editing the callback message in place when
// inPlace is set.
func showList(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps, inPlace bool) error {
	accs, err := d.Accounts.List(ctx)
	if err != nil {
		return failed(s, d, "list accounts", err)
	}

	if len(accs) == 0 {
		s.State = router.StateMainMenu
		if inPlace {
			return edit(u, s, d, d.T(s, "account_list_empty"), nil)
		}
		return reply(s, d, d.T(s, "account_list_empty"))
	}

	s.State = router.StateAccountList
	s.Page = menu.ClampPage(s.Page, len(accs), d.Cfg.PageSize)
	markup := menu.AccountList(d.Texts, s.Lang, accs, s.Page, d.Cfg.PageSize)
	title := d.T(s, "account_list_title", len(accs))

	if inPlace {
		return edit(u, s, d, title, &markup)
	}
	msg := tgbotapi.NewMessage(s.ChatID, title)
	msg.ReplyMarkup = markup
	_, err = d.Bot.Send(msg)
	return err
}

type AccountDetail struct{}

func (h AccountDetail) Name() string { return "account_detail" }

func (h AccountDetail) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return hasCallbackPrefix(u, menu.CbAccountPrefix)
}

func (h AccountDetail) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	answer(ctx, u, d)
	key := strings.TrimPrefix(u.CallbackQuery.Data, menu.CbAccountPrefix)

	acc, err := d.Accounts.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return notFound(ctx, u, s, d)
	}
	if err != nil {
		return failed(s, d, "get account", err)
	}

	s.State = router.StateAccountDetail
	s.CurrentAccount = key
	markup := menu.AccountDetail(d.Texts, s.Lang, key)
	return edit(u, s, d, menu.FormatAccount(d.Texts, s.Lang, acc), &markup)
}

func notFound(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	accs, err := d.Accounts.List(ctx)
	if err != nil {
		return failed(s, d, "list accounts", err)
	}
	s.State = router.StateAccountList
	markup := menu.AccountList(d.Texts, s.Lang, accs, s.Page, d.Cfg.PageSize)
	return edit(u, s, d, d.T(s, "account_not_found"), &markup)
}

type DownloadAccount struct{}

func (h DownloadAccount) Name() string { return "download_account" }

func (h DownloadAccount) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return hasCallbackPrefix(u, menu.CbDownloadPrefix)
}

func (h DownloadAccount) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	answer(ctx, u, d)
	key := strings.TrimPrefix(u.CallbackQuery.Data, menu.CbDownloadPrefix)

	acc, err := d.Accounts.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return notFound(ctx, u, s, d)
	}
	if err != nil {
		return failed(s, d, "get account", err)
	}

	archive, err := d.Export.Account(acc)
	if err != nil {
		return failed(s, d, "export account", err)
	}

	d.Log.Info(ctx, "account exported", "key", key)
	return sendArchive(s, d, archive, d.T(s, "account_caption", acc.Login.Or(key)))
}

type DeleteAccount struct{}

func (h DeleteAccount) Name() string { return "delete_account" }

func (h DeleteAccount) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return hasCallbackPrefix(u, menu.CbDeletePrefix)
}

func (h DeleteAccount) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	answer(ctx, u, d)
	key := strings.TrimPrefix(u.CallbackQuery.Data, menu.CbDeletePrefix)

	text := d.T(s, "account_deleted")
	if err := d.Accounts.Delete(ctx, key); err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return failed(s, d, "delete account", err)
		}
		text = d.T(s, "account_delete_error")
	}
	s.CurrentAccount = ""

	if err := edit(u, s, d, text, nil); err != nil {
		return err
	}
	return showList(ctx, u, s, d, false)
}

type BackToList struct{}

func (h BackToList) Name() string { return "back_to_list" }

func (h BackToList) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isCallback(u, menu.CbBackToList)
}

func (h BackToList) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	answer(ctx, u, d)
	s.CurrentAccount = ""
	return showList(ctx, u, s, d, true)
}

type DownloadAll struct {
	Texts *i18n.Catalog
}

func (h DownloadAll) Name() string { return "download_all" }

func (h DownloadAll) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isButton(u, h.Texts, menu.BtnDownloadAll)
}

func (h DownloadAll) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateMainMenu

	accs, err := d.Accounts.List(ctx)
	if err != nil {
		return failed(s, d, "list accounts", err)
	}

	archive, err := d.Export.All(services.Records(accs))
	if errors.Is(err, export.ErrNothingToExport) {
		return reply(s, d, d.T(s, "account_list_empty"))
	}
	if err != nil {
		return failed(s, d, "export accounts", err)
	}

	d.Log.Info(ctx, "all accounts exported", "count", len(accs))
	return sendArchive(s, d, archive, d.T(s, "all_accounts"))
}

type ClearPrompt struct {
	Texts *i18n.Catalog
}

func (h ClearPrompt) Name() string { return "clear_prompt" }

func (h ClearPrompt) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isButton(u, h.Texts, menu.BtnClearAll)
}

func (h ClearPrompt) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	s.State = router.StateConfirmClearAll
	msg := tgbotapi.NewMessage(s.ChatID, d.T(s, "confirm_clear_all"))
	msg.ReplyMarkup = menu.ConfirmClear(d.Texts, s.Lang)
	_, err := d.Bot.Send(msg)
	return err
}

// ClearAll handles the confirm and cancel buttons of ClearPrompt.
type ClearAll struct{}

func (h ClearAll) Name() string { return "clear_all" }

func (h ClearAll) CanHandle(u tgbotapi.Update, s *router.Session) bool {
	return isCallback(u, menu.CbConfirmClear) || isCallback(u, menu.CbCancelClear)
}

func (h ClearAll) Handle(ctx context.Context, u tgbotapi.Update, s *router.Session, d router.Deps) error {
	answer(ctx, u, d)
	s.State = router.StateMainMenu

	text := d.T(s, "clear_all_cancelled")
	if u.CallbackQuery.Data == menu.CbConfirmClear {
		text = d.T(s, "all_accounts_cleared")
		if err := d.Accounts.Clear(ctx); err != nil {
			d.Log.Error(ctx, "failed to clear store", "error", err)
			text = d.T(s, "clear_all_error")
		}
	}

	if err := edit(u, s, d, text, nil); err != nil {
		return err
	}
	return reply(s, d, d.T(s, "choose_action"))
}
