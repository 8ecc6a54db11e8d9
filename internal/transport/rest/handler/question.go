package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SuperstrongBE/xpr-guru-bot/internal/model"
	"github.com/SuperstrongBE/xpr-guru-bot/internal/repository"
)

// QuestionHandler handles question pool management endpoints
type QuestionHandler struct {
	questions repository.QuestionRepo
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questions repository.QuestionRepo) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// CreateQuestionRequest is the request body for creating a question
type CreateQuestionRequest struct {
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	AnswerIndex *int     `json:"answerIndex,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	AnswerInfo  string   `json:"answerInfo,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Create handles POST /v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question := &model.Question{
		Question:    req.Question,
		Choices:     req.Choices,
		AnswerIndex: req.AnswerIndex,
		Answer:      req.Answer,
		AnswerInfo:  req.AnswerInfo,
		Tags:        req.Tags,
	}
	if req.Question == "" || len(req.Choices) < 2 {
		writeError(w, http.StatusBadRequest, "a question needs a prompt and at least two choices")
		return
	}
	if question.CorrectIndex() < 0 {
		writeError(w, http.StatusBadRequest, "answerIndex out of range, or answer does not match any choice")
		return
	}

	if err := h.questions.Create(r.Context(), question); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

// List handles GET /v1/questions (optionally ?tag=)
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		questions []*model.Question
		err       error
	)
	if tag := r.URL.Query().Get("tag"); tag != "" {
		questions, err = h.questions.GetByTag(r.Context(), tag)
	} else {
		questions, err = h.questions.GetAll(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// Get handles GET /v1/questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	question, err := h.questions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if question == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// Delete handles DELETE /v1/questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.questions.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
