package handlers

import (
	"github.com/dmitrijs2005/steamkeeper/internal/bot/router"
	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
)

// Default returns every handler in dispatch order: commands, keyboard
// buttons, callbacks, the ASF template step, then uploads and free text.
func Default(t *i18n.Catalog) []router.StateHandler {
	return []router.StateHandler{
		Start{},
		Help{Texts: t},
		Config{},

		AccountList{Texts: t},
		Refresh{Texts: t},
		ImportZipPrompt{Texts: t},
		DownloadAll{Texts: t},
		ASFStart{Texts: t},
		ClearPrompt{Texts: t},
		LanguageMenu{Texts: t},

		AccountDetail{},
		DownloadAccount{},
		DeleteAccount{},
		BackToList{},
		BackToMain{},
		ClearAll{},
		LanguageChosen{},

		ASFTemplate{Texts: t},
		Document{},
		TextLine{Texts: t},
	}
}
