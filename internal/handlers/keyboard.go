package handlers

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"brand-visual-studio/internal/form"
	"brand-visual-studio/internal/studio"
)

// Callback data: "vs:<owner user id>:<action>[:<arg>]".
const callbackPrefix = "vs"

func (h *Handler) showDraft(chatID, userID int64) error {
	draft := h.drafts.Get(chatID, userID)
	_, err := h.tg.SendTextWithKeyboard(chatID, "📝 Form\n\n"+draft.Summary(), draftKeyboard(userID, draft))
	return err
}

func draftKeyboard(userID int64, draft form.Draft) tgbotapi.InlineKeyboardMarkup {
	current, err := studio.ParseAspectRatio(draft.Get(form.FieldAspectRatio))
	if err != nil {
		current = studio.AspectSquare
	}

	var ratios []tgbotapi.InlineKeyboardButton
	for _, ar := range []studio.AspectRatio{studio.AspectSquare, studio.AspectWide, studio.AspectTall} {
		label := ar.Name()
		if ar == current {
			label = "• " + label
		}
		ratios = append(ratios, tgbotapi.NewInlineKeyboardButtonData(label, callbackData(userID, "ar", strings.ToLower(ar.Name()))))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		ratios,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶ Series", callbackData(userID, "series")),
			tgbotapi.NewInlineKeyboardButtonData("▶ Story", callbackData(userID, "story")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reset", callbackData(userID, "reset")),
		),
	)
}

func callbackData(userID int64, action string, args ...string) string {
	parts := append([]string{callbackPrefix, strconv.FormatInt(userID, 10), action}, args...)
	return strings.Join(parts, ":")
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil || q.From == nil {
		return nil
	}

	parts := strings.Split(strings.TrimSpace(q.Data), ":")
	if len(parts) < 3 || parts[0] != callbackPrefix {
		return nil
	}

	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil
	}
	if ownerID != q.From.ID {
		return h.tg.AnswerCallback(q.ID, "This form belongs to someone else.", true)
	}

	chatID := q.Message.Chat.ID
	action, args := parts[2], parts[3:]

	switch action {
	case "ar":
		if len(args) < 1 {
			return nil
		}
		ar, err := studio.ParseAspectRatio(args[0])
		if err != nil {
			return h.tg.AnswerCallback(q.ID, studio.InvalidAspectMessage, true)
		}
		h.drafts.Set(chatID, ownerID, form.FieldAspectRatio, strings.ToLower(ar.Name()))
		_ = h.tg.AnswerCallback(q.ID, "Story ratio: "+ar.Name(), false)
		return h.showDraft(chatID, ownerID)
	case "series":
		_ = h.tg.AnswerCallback(q.ID, "Generating…", false)
		return h.runSeries(ctx, chatID, ownerID)
	case "story":
		_ = h.tg.AnswerCallback(q.ID, "Generating…", false)
		return h.runStory(ctx, chatID, ownerID, "", "")
	case "reset":
		h.drafts.Reset(chatID, ownerID)
		_ = h.tg.AnswerCallback(q.ID, "Form cleared", false)
		return h.showDraft(chatID, ownerID)
	default:
		return nil
	}
}
