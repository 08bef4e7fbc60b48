// Package router dispatches Telegram updates to state handlers and holds the
// per-conversation session and the dependencies handlers work with.
package router

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/steamkeeper/internal/export"
	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
)

// API is the part of *tgbotapi.BotAPI handlers use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Deps struct {
	Bot      API
	Files    Downloader
	Accounts services.AccountService
	Export   *export.Builder
	Texts    *i18n.Catalog
	Log      logging.Logger
	Cfg      Config
}

type Config struct {
	// MaxUploadSize is the largest document accepted, in bytes.
	MaxUploadSize int64
	// PageSize is the number of accounts per list page.
	PageSize int
}

// T looks a text up in the session language.
func (d Deps) T(s *Session, key string, args ...any) string {
	return d.Texts.T(s.Lang, key, args...)
}

type StateHandler interface {
	Name() string
	CanHandle(u tgbotapi.Update, s *Session) bool
	Handle(ctx context.Context, u tgbotapi.Update, s *Session, d Deps) error
}

type Router struct {
	handlers []StateHandler
}

func NewRouter(h ...StateHandler) *Router { return &Router{handlers: h} }

// Dispatch runs the first handler that accepts the update and returns its
// name. Updates nobody handles are ignored.
func (r *Router) Dispatch(ctx context.Context, u tgbotapi.Update, s *Session, d Deps) (string, error) {
	for _, h := range r.handlers {
		if h.CanHandle(u, s) {
			return h.Name(), h.Handle(ctx, u, s, d)
		}
	}
	return "", nil
}
