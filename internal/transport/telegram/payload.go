package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/service"
)

// Callback payloads. Answers use "answer:<questionId>_<choiceIndex>";
// a legacy "answer:<choiceText>" form still arrives from old keyboards
// and is normalized here.
const (
	answerPrefix = "answer:"
	modePrefix   = "mode:"

	payloadNext        = "next"
	payloadFinish      = "finish"
	payloadLeaderboard = "leaderboard"
)

// EncodeAnswer builds the canonical callback payload for one choice.
func EncodeAnswer(questionID string, choiceIndex int) string {
	return fmt.Sprintf("%s%s_%d", answerPrefix, questionID, choiceIndex)
}

// EncodeMode builds the callback payload for a mode-selection button.
func EncodeMode(mode string) string {
	return modePrefix + mode
}

// ParseAnswer normalizes an answer payload. Canonical payloads yield a
// question id and choice index; anything else non-empty is treated as
// legacy choice text. The split is on the last underscore so question
// ids and choice text containing underscores survive.
func ParseAnswer(payload string) (model.SubmittedAnswer, error) {
	if !strings.HasPrefix(payload, answerPrefix) {
		return model.SubmittedAnswer{}, service.ErrInvalidAnswerPayload
	}
	body := payload[len(answerPrefix):]
	if body == "" {
		return model.SubmittedAnswer{}, service.ErrInvalidAnswerPayload
	}

	if i := strings.LastIndex(body, "_"); i > 0 && i < len(body)-1 {
		if index, err := strconv.Atoi(body[i+1:]); err == nil {
			return model.SubmittedAnswer{
				QuestionID:  body[:i],
				ChoiceIndex: index,
			}, nil
		}
	}

	return model.SubmittedAnswer{ChoiceIndex: -1, Text: body}, nil
}

// ParseMode extracts the mode from a mode-selection payload, or "" when
// the payload is not a mode selection.
func ParseMode(payload string) string {
	if !strings.HasPrefix(payload, modePrefix) {
		return ""
	}
	return strings.TrimSpace(payload[len(modePrefix):])
}
