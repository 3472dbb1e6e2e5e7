// Package bot wires the news pipeline to a Telegram conversation that
// collects topic, location and language preferences.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/okorolenko/news-cluster-bot/internal/core/domain"
	"github.com/okorolenko/news-cluster-bot/internal/digest"
	"github.com/okorolenko/news-cluster-bot/internal/output/render"
	"github.com/okorolenko/news-cluster-bot/internal/platform/observability"
	"github.com/okorolenko/news-cluster-bot/internal/storage"
)

const updateTimeoutSeconds = 60

// PreferenceStore is the persistence contract the bot needs.
type PreferenceStore interface {
	GetPreferences(ctx context.Context, chatID int64) (domain.Preferences, error)
	SavePreferences(ctx context.Context, prefs domain.Preferences) error
	SetAutomatic(ctx context.Context, chatID int64, automatic bool) error
	ListAutomatic(ctx context.Context) ([]domain.Preferences, error)
}

// Runner runs one news request through the pipeline.
type Runner interface {
	Run(ctx context.Context, topic, location, language string) (digest.Result, error)
}

// Bot handles Telegram updates and delivers rendered news pages.
type Bot struct {
	api           *tgbotapi.BotAPI
	store         PreferenceStore
	pipeline      Runner
	conversations *conversations
	logger        *zerolog.Logger
}

// New creates a Bot for the given token.
func New(token string, store PreferenceStore, pipeline Runner, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:           api,
		store:         store,
		pipeline:      pipeline,
		conversations: newConversations(),
		logger:        logger,
	}, nil
}

// Run processes Telegram updates until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.api.Self.UserName).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	b.handleConversationReply(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	b.logger.Info().Str("command", msg.Command()).Int64("chat_id", msg.Chat.ID).Msg("handling command")

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg.Chat.ID)
	case "settings":
		b.handleSettings(ctx, msg.Chat.ID)
	case "cancel":
		b.conversations.reset(msg.Chat.ID)
		b.reply(msg.Chat.ID, textCanceled)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Try /start or /settings.")
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	prefs, err := b.store.GetPreferences(ctx, chatID)
	if err == nil {
		text := fmt.Sprintf(
			"👋 Welcome back!\n\nYour saved preferences:\n"+
				"📌 Topic: %s\n🌍 Location: %s\n🗣️ Language: %s\n🔔 Auto updates: %s\n\n"+
				"What would you like to do?",
			prefs.Topic, prefs.Location, prefs.Language, enabledText(prefs.Automatic))

		reply := tgbotapi.NewMessage(chatID, text)
		reply.ReplyMarkup = savedPrefsKeyboard()
		b.send(reply)

		return
	}

	if !errors.Is(err, storage.ErrNotFound) {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to load preferences")
	}

	b.conversations.get(chatID).state = stateTopic
	b.reply(chatID, textWelcome)
}

func (b *Bot) handleSettings(ctx context.Context, chatID int64) {
	prefs, err := b.store.GetPreferences(ctx, chatID)
	if err != nil {
		b.reply(chatID, textNoPrefs)
		return
	}

	text := fmt.Sprintf(
		"Your settings:\n📌 Topic: %s\n🌍 Location: %s\n🗣️ Language: %s\n🔔 Auto updates: %s",
		prefs.Topic, prefs.Location, prefs.Language, enabledText(prefs.Automatic))

	reply := tgbotapi.NewMessage(chatID, text)
	reply.ReplyMarkup = settingsKeyboard()
	b.send(reply)
}

func (b *Bot) handleConversationReply(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	conv := b.conversations.get(chatID)

	switch conv.state {
	case stateTopic:
		conv.topic = msg.Text
		conv.state = stateLocation

		reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("Great! Topic: %s\n\n%s", conv.topic, textAskLocation))
		reply.ReplyMarkup = locationKeyboard()
		b.send(reply)

	case stateLocation:
		code, ok := locationFromReply(msg.Text)
		if !ok {
			b.reply(chatID, "Please pick a location from the keyboard.")
			return
		}

		conv.location = code
		conv.state = stateLanguage

		reply := tgbotapi.NewMessage(chatID, textAskLanguage)
		reply.ReplyMarkup = languageKeyboard()
		b.send(reply)

	case stateLanguage:
		code, ok := languageFromReply(msg.Text)
		if !ok {
			b.reply(chatID, "Please pick a language from the keyboard.")
			return
		}

		conv.language = code
		conv.state = stateAutomatic
		b.reply(chatID, textAskAutomatic)

	case stateAutomatic:
		automatic, ok := parseYesNo(msg.Text)
		if !ok {
			b.reply(chatID, "Please answer yes or no.")
			return
		}

		prefs := domain.Preferences{
			ChatID:    chatID,
			Topic:     conv.topic,
			Location:  conv.location,
			Language:  conv.language,
			Automatic: automatic,
		}

		if err := b.store.SavePreferences(ctx, prefs); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to save preferences")
		}

		b.conversations.reset(chatID)
		b.SendNews(ctx, chatID, prefs.Topic, prefs.Location, prefs.Language)
		b.reply(chatID, textDone)

	default:
		b.reply(chatID, "Send /start to search for news.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}

	chatID := query.Message.Chat.ID

	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error().Err(err).Msg("failed to answer callback query")
	}

	switch query.Data {
	case callbackUseSaved:
		prefs, err := b.store.GetPreferences(ctx, chatID)
		if err != nil {
			b.reply(chatID, textNoPrefs)
			return
		}

		b.reply(chatID, textFetching)
		b.SendNews(ctx, chatID, prefs.Topic, prefs.Location, prefs.Language)
		b.reply(chatID, textDone)

	case callbackUpdatePrefs:
		b.conversations.get(chatID).state = stateTopic
		b.reply(chatID, textAskTopic)

	case callbackToggleAuto:
		prefs, err := b.store.GetPreferences(ctx, chatID)
		if err != nil {
			b.reply(chatID, textNoPrefs)
			return
		}

		if err := b.store.SetAutomatic(ctx, chatID, !prefs.Automatic); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to toggle automatic updates")
			return
		}

		b.reply(chatID, fmt.Sprintf("🔔 Auto updates: %s", enabledText(!prefs.Automatic)))
	}
}

// SendNews runs the pipeline for the given query and delivers the rendered
// pages in order. Empty results and unexpected failures both surface as
// user-visible messages; nothing is retried.
func (b *Bot) SendNews(ctx context.Context, chatID int64, topic, location, language string) {
	b.reply(chatID, textAnalyzing)

	result, err := b.pipeline.Run(ctx, topic, location, language)
	if errors.Is(err, digest.ErrNoNews) {
		b.reply(chatID, textNoNews)
		return
	}

	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("pipeline failed")
		b.reply(chatID, fmt.Sprintf("❌ An error occurred: %v", err))

		return
	}

	b.sendPage(chatID, newsHeader(time.Now()))

	for _, page := range result.Pages {
		b.sendPage(chatID, page)
	}
}

// SendDailyUpdates delivers news to every chat with automatic updates
// enabled. A failure for one chat does not block the others.
func (b *Bot) SendDailyUpdates(ctx context.Context) error {
	subscribers, err := b.store.ListAutomatic(ctx)
	if err != nil {
		return fmt.Errorf("list automatic subscribers: %w", err)
	}

	b.logger.Info().Int("subscribers", len(subscribers)).Msg("sending daily updates")

	for _, prefs := range subscribers {
		b.SendNews(ctx, prefs.ChatID, prefs.Topic, prefs.Location, prefs.Language)
	}

	return nil
}

// newsHeader renders the escaped MarkdownV2 header line for a delivery.
func newsHeader(now time.Time) string {
	return fmt.Sprintf("🗞 *News Clusters for %s*", render.EscapeText(now.Format("02-01-2006")))
}

// sendPage sends one MarkdownV2 page with link previews suppressed.
func (b *Bot) sendPage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		observability.PagesSent.WithLabelValues("error").Inc()
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send page")

		return
	}

	observability.PagesSent.WithLabelValues("ok").Inc()
}

// reply sends a plain text message.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.send(msg)
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.ChatID).Msg("failed to send message")
	}
}

func enabledText(enabled bool) string {
	if enabled {
		return "Enabled"
	}

	return "Disabled"
}
