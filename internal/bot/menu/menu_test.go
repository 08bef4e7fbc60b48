package menu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/steamkeeper/internal/i18n"
	"github.com/dmitrijs2005/steamkeeper/internal/logging"
	"github.com/dmitrijs2005/steamkeeper/internal/models"
	"github.com/dmitrijs2005/steamkeeper/internal/services"
)

func catalog() *i18n.Catalog { return i18n.New("en", logging.Discard()) }

func stored(n int) []services.StoredAccount {
	out := make([]services.StoredAccount, n)
	for i := range out {
		key := fmt.Sprintf("acc%02d", i)
		out[i] = services.StoredAccount{Key: key, Account: models.Account{Login: models.Some(key)}}
	}
	return out
}

func TestKeyboard_Layout(t *testing.T) {
	kb := Keyboard(catalog(), "en")
	require.Len(t, kb.Keyboard, 4)
	assert.Equal(t, "📋 Account list", kb.Keyboard[0][0].Text)
	assert.Equal(t, "❓ Help", kb.Keyboard[3][1].Text)
	assert.True(t, kb.ResizeKeyboard)
}

func TestIsButton(t *testing.T) {
	c := catalog()
	assert.True(t, IsButton(c, "🗑 Очистить хранилище"))
	assert.True(t, IsButton(c, "🗑 Clear storage"))
	assert.False(t, IsButton(c, "a:b:c:d"))
}

func TestAccountList_Paging(t *testing.T) {
	c := catalog()
	accs := stored(23)

	first := AccountList(c, "en", accs, 0, 10)
	require.Len(t, first.InlineKeyboard, 12)
	assert.Equal(t, "account_acc00", *first.InlineKeyboard[0][0].CallbackData)
	nav := first.InlineKeyboard[10]
	require.Len(t, nav, 1)
	assert.Equal(t, "page_1", *nav[0].CallbackData)

	middle := AccountList(c, "en", accs, 1, 10)
	nav = middle.InlineKeyboard[10]
	require.Len(t, nav, 2)
	assert.Equal(t, "page_0", *nav[0].CallbackData)
	assert.Equal(t, "page_2", *nav[1].CallbackData)

	last := AccountList(c, "en", accs, 7, 10)
	require.Len(t, last.InlineKeyboard, 5)
	assert.Equal(t, "account_acc20", *last.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, CbBackToMain, *last.InlineKeyboard[4][0].CallbackData)
}

func TestAccountList_LabelFallsBackToKey(t *testing.T) {
	accs := []services.StoredAccount{{Key: "7656", Account: models.Account{SteamID: models.Some("7656")}}}
	kb := AccountList(catalog(), "en", accs, 0, 10)
	assert.Equal(t, "7656", kb.InlineKeyboard[0][0].Text)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, ClampPage(-3, 5, 10))
	assert.Equal(t, 0, ClampPage(4, 0, 10))
	assert.Equal(t, 2, ClampPage(9, 21, 10))
}

func TestFormatAccount_EscapesHTML(t *testing.T) {
	acc := models.Account{Login: models.Some("a<b>"), Password: models.Some("p&q")}
	out := FormatAccount(catalog(), "en", acc)

	assert.Contains(t, out, "<code>a&lt;b&gt;</code>")
	assert.Contains(t, out, "<code>p&amp;q</code>")
	assert.Contains(t, out, "<b>SteamID:</b> <code>missing</code>")
}

func TestLanguages(t *testing.T) {
	kb := Languages()
	require.Len(t, kb.InlineKeyboard, len(i18n.Languages))
	assert.Equal(t, "lang_ru", *kb.InlineKeyboard[0][0].CallbackData)
}
