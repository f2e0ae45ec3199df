package server

import (
	"net/http"

	"github.com/playperu/ruleta/internal/game"
)

type CategoryItem struct {
	Name          string   `json:"name"`
	Emoji         string   `json:"emoji"`
	Color         string   `json:"color"`
	QuestionCount int      `json:"questionCount"`
	Questions     []string `json:"questions"`
}

// handleCategories returns the wheel as the caller sees it: built-in
// questions followed by the caller's own.
func handleCategories(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := games.Get(r.Context(), ownerFrom(r.Context()))

		merged := sess.Categories()
		items := make([]CategoryItem, 0, len(merged))
		for _, c := range merged {
			items = append(items, CategoryItem{
				Name:          c.Name,
				Emoji:         c.Emoji,
				Color:         c.Color,
				QuestionCount: len(c.Questions),
				Questions:     c.Questions,
			})
		}
		writeJSON(w, http.StatusOK, items)
	}
}
