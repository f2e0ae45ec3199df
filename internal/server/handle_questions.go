package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/ruleta/internal/game"
	"github.com/playperu/ruleta/internal/ruleta"
)

type QuestionItem struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

type QuestionsResponse struct {
	Questions []QuestionItem `json:"questions"`
	// Orphans are questions filed under a category the wheel no longer has.
	Orphans []QuestionItem `json:"orphans"`
}

type CreateQuestionRequest struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

func toQuestionItems(qs []ruleta.CustomQuestion) []QuestionItem {
	items := make([]QuestionItem, 0, len(qs))
	for _, q := range qs {
		items = append(items, QuestionItem{
			ID:        q.ID,
			Question:  q.Question,
			Category:  q.Category,
			CreatedAt: q.CreatedAt,
		})
	}
	return items
}

// handleListQuestions reloads the caller's questions from the store.
func handleListQuestions(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := games.Get(r.Context(), ownerFrom(r.Context()))

		if err := sess.Refresh(r.Context()); err != nil {
			writeErr(w, err)
			return
		}

		custom := sess.CustomQuestions()
		writeJSON(w, http.StatusOK, QuestionsResponse{
			Questions: toQuestionItems(custom),
			Orphans:   toQuestionItems(ruleta.Orphans(sess.Catalog(), custom)),
		})
	}
}

func handleCreateQuestion(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateQuestionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess := games.Get(r.Context(), ownerFrom(r.Context()))
		q, err := sess.AddCustomQuestion(r.Context(), req.Question, req.Category)
		if err != nil {
			writeErr(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toQuestionItems([]ruleta.CustomQuestion{q})[0])
	}
}

func handleDeleteQuestion(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		sess := games.Get(r.Context(), ownerFrom(r.Context()))
		if err := sess.DeleteCustomQuestion(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
