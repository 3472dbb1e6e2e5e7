package bot

import (
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// conversation tracks one chat's progress through the preference setup flow.
type conversation struct {
	state    state
	topic    string
	location string
	language string
}

// conversations is a mutex-guarded state table keyed by chat id.
type conversations struct {
	mu   sync.Mutex
	byID map[int64]*conversation
}

func newConversations() *conversations {
	return &conversations{byID: make(map[int64]*conversation)}
}

func (c *conversations) get(chatID int64) *conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	conv, ok := c.byID[chatID]
	if !ok {
		conv = &conversation{state: stateIdle}
		c.byID[chatID] = conv
	}

	return conv
}

func (c *conversations) reset(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byID, chatID)
}

// locationFromReply resolves a keyboard reply to a region code.
func locationFromReply(reply string) (string, bool) {
	reply = strings.TrimSpace(reply)
	if reply == skipLocationReply {
		return "US", true
	}

	for code, name := range locations {
		if strings.EqualFold(reply, name) || strings.EqualFold(reply, code) {
			return code, true
		}
	}

	return "", false
}

// languageFromReply resolves a keyboard reply to a language code.
func languageFromReply(reply string) (string, bool) {
	reply = strings.TrimSpace(reply)

	for code, name := range languages {
		if strings.EqualFold(reply, name) || strings.EqualFold(reply, code) {
			return code, true
		}
	}

	return "", false
}

// parseYesNo interprets an automatic-updates answer.
func parseYesNo(reply string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "yes", "y", "enable", "on":
		return true, true
	case "no", "n", "disable", "off":
		return false, true
	default:
		return false, false
	}
}

func locationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(locationOrder)+1)
	for _, code := range locationOrder {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(locations[code])))
	}

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(skipLocationReply)))

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = true

	return keyboard
}

func languageKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(languageOrder))
	for _, code := range languageOrder {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(languages[code])))
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = true

	return keyboard
}

func savedPrefsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Use saved preferences", callbackUseSaved),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Update preferences", callbackUpdatePrefs),
		),
	)
}

func settingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Toggle auto updates", callbackToggleAuto),
		),
	)
}
