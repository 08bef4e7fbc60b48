// Package bot runs the Telegram long-poll loop: it builds a session for every
// update, gates it on the allowed user list and hands it to the router.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
)

// UpdatesAPI is the part of *tgbotapi.BotAPI the loop needs.
type UpdatesAPI interface {
	router.API
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Options struct {
	// AllowedUsers may talk to the bot. Nobody else is served.
	AllowedUsers  []int64
	PollTimeout   time.Duration
	UpdateTimeout time.Duration
}

type Bot struct {
	api      UpdatesAPI
	router   *router.Router
	sessions router.SessionStore
	deps     router.Deps
	allowed  map[int64]struct{}
	opts     Options
}

func New(api UpdatesAPI, r *router.Router, sessions router.SessionStore, deps router.Deps, opts Options) *Bot {
	allowed := make(map[int64]struct{}, len(opts.AllowedUsers))
	for _, id := range opts.AllowedUsers {
		allowed[id] = struct{}{}
	}
	if opts.UpdateTimeout <= 0 {
		opts.UpdateTimeout = 30 * time.Second
	}
	return &Bot{api: api, router: r, sessions: sessions, deps: deps, allowed: allowed, opts: opts}
}

// Run processes updates one at a time until ctx is cancelled or the update
// channel closes.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(b.opts.PollTimeout.Seconds())
	cfg.AllowedUpdates = []string{"message", "callback_query"}

	updates := b.api.GetUpdatesChan(cfg)
	defer b.api.StopReceivingUpdates()

	b.deps.Log.Info(ctx, "bot started", "allowed_users", len(b.allowed))

	for {
		select {
		case <-ctx.Done():
			b.deps.Log.Info(ctx, "bot stopping")
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, u)
		}
	}
}

// HandleUpdate dispatches one update and stores the resulting session.
// Errors are logged, never returned, so one bad update cannot stop the loop.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	log := b.deps.Log.With("update_id", u.UpdateID, "request_id", uuid.NewString())

	s, err := b.session(u)
	if err != nil {
		log.Warn(ctx, "update rejected", "error", err)
		return
	}
	log = log.With("user_id", s.UserID)

	ctx, cancel := context.WithTimeout(ctx, b.opts.UpdateTimeout)
	defer cancel()

	d := b.deps
	d.Log = log

	name, err := b.router.Dispatch(ctx, u, &s, d)
	b.sessions.Save(s)

	switch {
	case err != nil:
		log.Error(ctx, "update failed", "handler", name, "error", err)
	case name == "":
		log.Debug(ctx, "update ignored")
	default:
		log.Debug(ctx, "update handled", "handler", name, "state", s.State)
	}
}

// session returns the stored session of the update's sender, or a new one in
// the default language.
func (b *Bot) session(u tgbotapi.Update) (router.Session, error) {
	var userID, chatID int64
	switch {
	case u.Message != nil && u.Message.From != nil && u.Message.Chat != nil:
		userID, chatID = u.Message.From.ID, u.Message.Chat.ID
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil && u.CallbackQuery.Message != nil && u.CallbackQuery.Message.Chat != nil:
		userID, chatID = u.CallbackQuery.From.ID, u.CallbackQuery.Message.Chat.ID
	default:
		return router.Session{}, errors.New("unsupported update")
	}

	if _, ok := b.allowed[userID]; !ok {
		return router.Session{}, fmt.Errorf("user %d: %w", userID, common.ErrorUnauthorized)
	}

	s, ok := b.sessions.Get(userID)
	if !ok {
		s = router.Session{
			UserID: userID,
			State:  router.StateMainMenu,
			Lang:   b.deps.Texts.DefaultLanguage(),
		}
	}
	s.ChatID = chatID
	return s, nil
}
