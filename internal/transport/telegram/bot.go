package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/cache"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/service"
)

// Bot is the chat adapter: it turns Telegram updates into core events
// and renders the core's prompts, feedback and summaries. All quiz state
// lives behind the services; the bot itself is stateless, so any number
// of instances can share the update stream.
type Bot struct {
	api         *tgbotapi.BotAPI
	sessions    *service.SessionService
	selector    *service.SelectorService
	evaluator   *service.EvaluatorService
	leaderboard cache.LeaderboardCache
	modes       []string
}

// NewBot creates the Telegram adapter.
func NewBot(token string, sessions *service.SessionService, selector *service.SelectorService, evaluator *service.EvaluatorService, leaderboard cache.LeaderboardCache, modes []string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:         api,
		sessions:    sessions,
		selector:    selector,
		evaluator:   evaluator,
		leaderboard: leaderboard,
		modes:       modes,
	}, nil
}

// Run consumes the update stream until ctx is cancelled. Every update is
// handled in its own goroutine, so events for different users never wait
// on each other; overlapping events for the same user are safe because
// all shared state is consumed with conditional store updates.
func (b *Bot) Run(ctx context.Context) error {
	log.Printf("Authorized on account: %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic while handling update %d: %v", update.UpdateID, r)
		}
	}()

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	user := msg.From
	if user == nil {
		return
	}

	switch msg.Command() {
	case "start":
		b.sendModeMenu(chatID)
	case "next":
		b.serveNext(ctx, chatID, user)
	case "finish":
		b.finishSession(ctx, chatID, user)
	case "leaderboard":
		b.sendLeaderboard(ctx, chatID)
	default:
		b.sendText(chatID, "Unknown command. Try /start, /next, /finish or /leaderboard.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.From == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	user := callback.From
	data := callback.Data

	// Ack first so the client stops its spinner even if evaluation is slow.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("answering callback query failed: %v", err)
	}

	switch {
	case strings.HasPrefix(data, answerPrefix):
		b.handleAnswer(ctx, chatID, user, data)
	case strings.HasPrefix(data, modePrefix):
		b.beginMode(ctx, chatID, user, ParseMode(data))
	case data == payloadNext:
		b.serveNext(ctx, chatID, user)
	case data == payloadFinish:
		b.finishSession(ctx, chatID, user)
	case data == payloadLeaderboard:
		b.sendLeaderboard(ctx, chatID)
	default:
		b.sendText(chatID, "Unknown action.")
	}
}

// beginMode starts a fresh session in the chosen mode and serves its
// first question.
func (b *Bot) beginMode(ctx context.Context, chatID int64, user *tgbotapi.User, mode string) {
	if mode == "" {
		b.sendText(chatID, "Unknown mode. Send /start to pick again.")
		return
	}

	session, err := b.sessions.BeginWithMode(ctx, user.ID, handleOf(user), mode)
	if err != nil {
		log.Printf("begin session for user %d failed: %v", user.ID, err)
		b.sendText(chatID, "Could not start a quiz right now, please try again.")
		return
	}
	b.serveQuestion(ctx, chatID, session)
}

// serveNext resolves (or creates) the session and serves a question.
func (b *Bot) serveNext(ctx context.Context, chatID int64, user *tgbotapi.User) {
	session, err := b.sessions.ResolveOrCreate(ctx, user.ID, handleOf(user))
	if err != nil {
		log.Printf("resolve session for user %d failed: %v", user.ID, err)
		b.sendText(chatID, "Could not load your quiz right now, please try again.")
		return
	}
	b.serveQuestion(ctx, chatID, session)
}

func (b *Bot) serveQuestion(ctx context.Context, chatID int64, session *model.Session) {
	prompt, err := b.selector.Serve(ctx, session)
	if errors.Is(err, service.ErrNoQuestionAvailable) {
		b.sendText(chatID, fmt.Sprintf("No questions available for mode %q yet. Try /start and another mode.", session.Mode))
		return
	}
	if err != nil {
		log.Printf("serving question for session %s failed: %v", session.ID, err)
		b.sendText(chatID, "Could not fetch a question right now, please try again.")
		return
	}
	b.sendPrompt(chatID, prompt)
}

func (b *Bot) handleAnswer(ctx context.Context, chatID int64, user *tgbotapi.User, payload string) {
	answer, err := ParseAnswer(payload)
	if err != nil {
		b.sendText(chatID, "That answer could not be read. Use the buttons under the question.")
		return
	}

	session, err := b.sessions.Active(ctx, user.ID)
	if err != nil {
		log.Printf("resolve active session for user %d failed: %v", user.ID, err)
		b.sendText(chatID, "Could not load your quiz right now, please try again.")
		return
	}
	if session == nil {
		b.sendText(chatID, "No quiz in progress. Send /start to begin.")
		return
	}

	feedback, err := b.evaluator.Evaluate(ctx, session, answer)
	switch {
	case err == nil:
		b.sendFeedback(ctx, chatID, session, feedback)
	case errors.Is(err, service.ErrStaleAnswer):
		b.sendText(chatID, "That question was already scored.")
	case errors.Is(err, service.ErrInvalidAnswerPayload):
		b.sendText(chatID, "That answer could not be read. Use the buttons under the question.")
	case errors.Is(err, service.ErrNoActiveQuestion):
		// Recovery policy: serve a fresh question instead of erroring out.
		b.sendText(chatID, "That question is gone, here is a new one.")
		b.serveQuestion(ctx, chatID, session)
	default:
		log.Printf("evaluating answer for session %s failed: %v", session.ID, err)
		b.sendText(chatID, "Could not score that answer, please try again.")
	}
}

func (b *Bot) finishSession(ctx context.Context, chatID int64, user *tgbotapi.User) {
	session, err := b.sessions.Active(ctx, user.ID)
	if err != nil {
		log.Printf("resolve active session for user %d failed: %v", user.ID, err)
		b.sendText(chatID, "Could not load your quiz right now, please try again.")
		return
	}
	if session == nil {
		b.sendText(chatID, "No quiz in progress. Send /start to begin.")
		return
	}

	done, err := b.sessions.Complete(ctx, session.ID)
	if err != nil {
		log.Printf("completing session %s failed: %v", session.ID, err)
		b.sendText(chatID, "Could not finish the quiz, please try again.")
		return
	}
	b.sendSummary(ctx, chatID, done.UserID, model.NewSummary(done))
}

// Rendering

func (b *Bot) sendModeMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "🧠 *XPR Guru Quiz*\n\nPick a mode:")
	msg.ParseMode = "Markdown"

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, mode := range b.modes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(modeLabel(mode), EncodeMode(mode)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", payloadLeaderboard),
	))

	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *Bot) sendPrompt(chatID int64, prompt *model.Prompt) {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❓ %s", prompt.Text))

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, choice := range prompt.Choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(choice, EncodeAnswer(prompt.QuestionID, i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏁 Finish", payloadFinish),
	))

	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

func (b *Bot) sendFeedback(ctx context.Context, chatID int64, session *model.Session, feedback *model.Feedback) {
	var sb strings.Builder
	if feedback.Correct {
		sb.WriteString("✅ Correct!")
	} else {
		sb.WriteString(fmt.Sprintf("❌ Wrong!\nThe correct answer is: %s", feedback.CorrectAnswer))
	}
	if feedback.Explanation != "" {
		sb.WriteString("\n\nℹ️ " + feedback.Explanation)
	}
	sb.WriteString(fmt.Sprintf("\n\n📊 Score: %d/%d (%d%%)", feedback.CorrectCount, feedback.Questions, feedback.Accuracy))
	b.sendText(chatID, sb.String())

	switch {
	case feedback.Done:
		// The answer hit the max-question cap; the session is completed.
		b.sendSummary(ctx, chatID, session.UserID, &model.Summary{
			Handle:    session.Handle,
			Mode:      session.Mode,
			Questions: feedback.Questions,
			Correct:   feedback.CorrectCount,
			Accuracy:  feedback.Accuracy,
		})
	case feedback.Next != nil:
		b.sendPrompt(chatID, feedback.Next)
	default:
		b.sendText(chatID, "The question pool ran dry. Send /finish for your result or /start for a new quiz.")
	}
}

func (b *Bot) sendSummary(ctx context.Context, chatID int64, userID int64, summary *model.Summary) {
	text := fmt.Sprintf(
		"🏁 *Quiz finished!*\n\nMode: %s\n📊 Result: %d/%d\n📈 Accuracy: %d%%",
		summary.Mode, summary.Correct, summary.Questions, summary.Accuracy,
	)

	if b.leaderboard != nil {
		// Rank is decoration; skip it when Redis is unhappy.
		if rank, err := b.leaderboard.GetRank(ctx, userID); err == nil && rank > 0 {
			text += fmt.Sprintf("\n🏆 Leaderboard rank: %d", rank)
		}
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Play again", EncodeMode(summary.Mode)),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", payloadLeaderboard),
		),
	)
	b.send(msg)
}

func (b *Bot) sendLeaderboard(ctx context.Context, chatID int64) {
	if b.leaderboard == nil {
		b.sendText(chatID, "Leaderboard is not available.")
		return
	}

	top, err := b.leaderboard.GetTop(ctx, 10)
	if err != nil {
		log.Printf("loading leaderboard failed: %v", err)
		b.sendText(chatID, "Could not load the leaderboard, please try again.")
		return
	}
	if len(top) == 0 {
		b.sendText(chatID, "🏆 No results yet. Be the first, send /start!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Top players\n\n")
	for _, entry := range top {
		medal := "🔸"
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		name := entry.Handle
		if name == "" {
			name = fmt.Sprintf("player %d", entry.UserID)
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s: %d%%\n", medal, entry.Rank, name, entry.Accuracy))
	}
	b.sendText(chatID, sb.String())
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("sending message to chat %d failed: %v", msg.ChatID, err)
	}
}

func modeLabel(mode string) string {
	if mode == "" {
		return mode
	}
	return strings.ToUpper(mode[:1]) + mode[1:]
}

func handleOf(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
