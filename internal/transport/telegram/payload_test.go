package telegram

import (
	"errors"
	"testing"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/service"
)

func TestParseAnswerCanonical(t *testing.T) {
	payload := EncodeAnswer("q_3f9a12bc", 2)

	answer, err := ParseAnswer(payload)
	if err != nil {
		t.Fatalf("ParseAnswer(%q) failed: %v", payload, err)
	}
	if answer.QuestionID != "q_3f9a12bc" || answer.ChoiceIndex != 2 {
		t.Fatalf("unexpected answer: %+v", answer)
	}
	if answer.Legacy() {
		t.Fatalf("canonical payload parsed as legacy")
	}
}

func TestParseAnswerQuestionIDWithUnderscores(t *testing.T) {
	answer, err := ParseAnswer(EncodeAnswer("q_ab_cd_ef", 0))
	if err != nil {
		t.Fatalf("ParseAnswer failed: %v", err)
	}
	if answer.QuestionID != "q_ab_cd_ef" || answer.ChoiceIndex != 0 {
		t.Fatalf("underscore-bearing id mangled: %+v", answer)
	}
}

func TestParseAnswerLegacyText(t *testing.T) {
	cases := []struct {
		payload string
		text    string
	}{
		{"answer:Proton", "Proton"},
		{"answer:XPR Network", "XPR Network"},
		// Trailing non-numeric segment means the whole body is choice text.
		{"answer:plan_b", "plan_b"},
	}
	for _, tc := range cases {
		answer, err := ParseAnswer(tc.payload)
		if err != nil {
			t.Fatalf("ParseAnswer(%q) failed: %v", tc.payload, err)
		}
		if !answer.Legacy() || answer.Text != tc.text {
			t.Fatalf("ParseAnswer(%q) = %+v, want legacy text %q", tc.payload, answer, tc.text)
		}
	}
}

func TestParseAnswerRejectsMalformedPayloads(t *testing.T) {
	for _, payload := range []string{"", "answer:", "mode:xpr", "next"} {
		_, err := ParseAnswer(payload)
		if !errors.Is(err, service.ErrInvalidAnswerPayload) {
			t.Fatalf("ParseAnswer(%q) = %v, want ErrInvalidAnswerPayload", payload, err)
		}
	}
}

func TestParseMode(t *testing.T) {
	if got := ParseMode(EncodeMode("xpr")); got != "xpr" {
		t.Fatalf("ParseMode round-trip = %q", got)
	}
	if got := ParseMode("answer:q_1_0"); got != "" {
		t.Fatalf("non-mode payload parsed as mode %q", got)
	}
}
