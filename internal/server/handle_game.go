package server

import (
	"net/http"

	"github.com/playperu/ruleta/internal/game"
)

type SpinResponse struct {
	Started bool          `json:"started"`
	State   game.Snapshot `json:"state"`
}

type PlayerRequest struct {
	Player int `json:"player"`
}

func handleGameState(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := games.Get(r.Context(), ownerFrom(r.Context()))
		writeJSON(w, http.StatusOK, sess.Snapshot())
	}
}

// handleSpin answers 202 when a spin was started and 200 when one was
// already running.
func handleSpin(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := games.Get(r.Context(), ownerFrom(r.Context()))

		snap, started, err := sess.RequestSpin()
		if err != nil {
			writeErr(w, err)
			return
		}

		status := http.StatusOK
		if started {
			status = http.StatusAccepted
		}
		writeJSON(w, status, SpinResponse{Started: started, State: snap})
	}
}

func handleFinishTurn(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := games.Get(r.Context(), ownerFrom(r.Context()))

		snap, err := sess.FinishTurn()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleCloseResult(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := games.Get(r.Context(), ownerFrom(r.Context()))

		snap, err := sess.CloseResult()
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleSetPlayer(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess := games.Get(r.Context(), ownerFrom(r.Context()))
		snap, err := sess.SetCurrentPlayer(req.Player)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func handleEndGame(games *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games.End(ownerFrom(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}
}
