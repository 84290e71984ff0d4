package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"brand-visual-studio/internal/form"
	"brand-visual-studio/internal/lifecycle"
	"brand-visual-studio/internal/studio"
	"brand-visual-studio/internal/telegram"
)

// Messenger is the part of the Telegram client the handlers talk to.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendTextWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) (int, error)
	SendTyping(chatID int64)
	SendPhoto(chatID int64, name string, data []byte, caption string) error
	SendDocument(chatID int64, name string, data []byte, caption string) error
	AnswerCallback(callbackID, text string, alert bool) error
}

// Generator runs the two flows.
type Generator interface {
	Series(ctx context.Context, key string, in studio.GenerationInputs, r studio.Renderer) (studio.Result, error)
	Story(ctx context.Context, key string, req studio.StoryRequest, r studio.Renderer) (studio.Result, error)
}

type Options struct {
	Telegram Messenger
	Studio   Generator
	Drafts   *form.Store
	Logger   *slog.Logger
}

type Handler struct {
	tg     Messenger
	studio Generator
	drafts *form.Store
	logger *slog.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	drafts := opts.Drafts
	if drafts == nil {
		drafts = form.NewStore()
	}

	return &Handler{
		tg:     opts.Telegram,
		studio: opts.Studio,
		drafts: drafts,
		logger: logger,
	}
}

const helpText = "🎨 Brand Visual Studio\n\n" +
	"Fill in the form, then generate:\n" +
	"/set <field> <value> - set a field (empty value clears it)\n" +
	"/show - show the form\n" +
	"/reset - clear the form\n" +
	"/series - three images: square, wide, tall\n" +
	"/story <theme> [ar=square|wide|tall] - six-frame story\n\n" +
	"Fields: brand, character, palette, season, scene, title_localized, title_default, negative, seed, theme, aspect_ratio"

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	if msg.IsCommand() {
		return h.handleCommand(ctx, msg.Chat.ID, msg.From.ID, msg)
	}
	if strings.TrimSpace(msg.Text) != "" {
		return h.tg.SendText(msg.Chat.ID, "Use /help to see the commands.")
	}
	return nil
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		return h.tg.SendText(chatID, helpText)
	case "set":
		field, value, err := form.ParseAssignment(args)
		if err != nil {
			return h.tg.SendText(chatID, "❌ "+err.Error()+"\nExample: /set brand Luma")
		}
		h.drafts.Set(chatID, userID, field, value)
		if value == "" {
			return h.tg.SendText(chatID, fmt.Sprintf("✅ %s cleared", field))
		}
		return h.tg.SendText(chatID, fmt.Sprintf("✅ %s = %s", field, value))
	case "show":
		return h.showDraft(chatID, userID)
	case "reset":
		h.drafts.Reset(chatID, userID)
		return h.tg.SendText(chatID, "✅ Form cleared.")
	case "series":
		return h.runSeries(ctx, chatID, userID)
	case "story":
		theme, aspect := form.ParseStoryArgs(args)
		return h.runStory(ctx, chatID, userID, theme, aspect)
	default:
		return h.tg.SendText(chatID, "❌ Unknown command. Use /help.")
	}
}

func (h *Handler) runSeries(ctx context.Context, chatID, userID int64) error {
	draft := h.drafts.Get(chatID, userID)
	r := newChatRenderer(h.tg, chatID, h.logger)

	_, err := h.studio.Series(ctx, sessionKey(chatID), form.Inputs(draft.Get), r)
	return h.finish(chatID, r, err)
}

// runStory falls back to the draft's theme and ratio when the command has none.
func (h *Handler) runStory(ctx context.Context, chatID, userID int64, theme, aspect string) error {
	draft := h.drafts.Get(chatID, userID)
	req := form.StoryRequest(draft.Get)
	if theme != "" {
		req.Theme = theme
	}
	if aspect != "" {
		req.AspectRatio = aspect
	}

	r := newChatRenderer(h.tg, chatID, h.logger)
	_, err := h.studio.Story(ctx, sessionKey(chatID), req, r)
	return h.finish(chatID, r, err)
}

// finish reports what the renderer could not: a rejected submit. Flow errors
// have already been shown to the user and are only logged.
func (h *Handler) finish(chatID int64, r *chatRenderer, err error) error {
	switch {
	case err == nil:
		return r.err
	case errors.Is(err, lifecycle.ErrBusy):
		return h.tg.SendText(chatID, "⏳ "+studio.BusyMessage)
	case errors.Is(err, context.Canceled):
		return err
	default:
		h.logger.Warn("flow ended with error", "chat_id", chatID, "validation", studio.IsValidation(err), "err", err)
		return r.err
	}
}

func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// chatRenderer presents one flow in a chat. Telegram has no grid to clear, so
// Loading only announces the batch.
type chatRenderer struct {
	tg     Messenger
	chatID int64
	logger *slog.Logger
	err    error
}

func newChatRenderer(tg Messenger, chatID int64, logger *slog.Logger) *chatRenderer {
	return &chatRenderer{tg: tg, chatID: chatID, logger: logger}
}

func (r *chatRenderer) Loading() {
	r.tg.SendTyping(r.chatID)
	r.keep(r.tg.SendText(r.chatID, "🎨 Generating, please wait..."))
}

func (r *chatRenderer) Results(entries []studio.Entry) {
	if len(entries) == 0 {
		r.keep(r.tg.SendText(r.chatID, "No images came back this time. Try again or adjust the form."))
		return
	}
	for _, e := range entries {
		if err := r.tg.SendPhoto(r.chatID, e.Filename, e.Data, e.Label); err != nil {
			r.keep(err)
			return
		}
		r.keep(r.tg.SendDocument(r.chatID, e.Filename, e.Data, ""))
	}
}

func (r *chatRenderer) Failure(message string) {
	r.keep(r.tg.SendText(r.chatID, "❌ "+message))
}

func (r *chatRenderer) keep(err error) {
	if err == nil {
		return
	}
	r.logger.Error("telegram send failed", "chat_id", r.chatID, "err", err)
	if r.err == nil {
		r.err = err
	}
}
