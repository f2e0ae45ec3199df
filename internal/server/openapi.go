package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/ruleta/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency to its status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Ruleta API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for Ruleta de Conversación, a two-player question wheel. " +
		"Requests are scoped to the logged-in player or to the anonymous conversation_game_session cookie.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/categories
	getCategories, _ := r.NewOperationContext(http.MethodGet, "/api/categories")
	getCategories.SetSummary("Wheel categories")
	getCategories.SetDescription("Built-in categories with the caller's custom questions appended.")
	getCategories.AddRespStructure([]CategoryItem{}, openapi.WithHTTPStatus(http.StatusOK))
	getCategories.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getCategories)

	// GET /api/questions
	listQuestions, _ := r.NewOperationContext(http.MethodGet, "/api/questions")
	listQuestions.SetSummary("List custom questions")
	listQuestions.SetDescription("Reloads the caller's custom questions, newest first.")
	listQuestions.AddRespStructure(QuestionsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	listQuestions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(listQuestions)

	// POST /api/questions
	createQuestion, _ := r.NewOperationContext(http.MethodPost, "/api/questions")
	createQuestion.SetSummary("Add custom question")
	createQuestion.SetDescription("Adds a question to one of the built-in categories.")
	createQuestion.AddReqStructure(CreateQuestionRequest{})
	createQuestion.AddRespStructure(QuestionItem{}, openapi.WithHTTPStatus(http.StatusCreated))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(createQuestion)

	// DELETE /api/questions/{id}
	deleteQuestion, _ := r.NewOperationContext(http.MethodDelete, "/api/questions/{id}")
	deleteQuestion.SetSummary("Delete custom question")
	deleteQuestion.SetDescription("Deletes one of the caller's custom questions.")
	deleteQuestion.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(deleteQuestion)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the caller's turn state and wheel rotation.")
	getState.AddRespStructure(game.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// POST /api/game/spin
	postSpin, _ := r.NewOperationContext(http.MethodPost, "/api/game/spin")
	postSpin.SetSummary("Spin the wheel")
	postSpin.SetDescription("Starts a spin. The result is published after the resolution delay. " +
		"Answers 200 with started=false while a spin is running.")
	postSpin.AddRespStructure(SpinResponse{}, openapi.WithHTTPStatus(http.StatusAccepted))
	postSpin.AddRespStructure(SpinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSpin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSpin)

	// POST /api/game/finish
	postFinish, _ := r.NewOperationContext(http.MethodPost, "/api/game/finish")
	postFinish.SetSummary("Finish turn")
	postFinish.SetDescription("Dismisses the result and passes the turn to the other player.")
	postFinish.AddRespStructure(game.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	postFinish.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postFinish)

	// POST /api/game/close
	postClose, _ := r.NewOperationContext(http.MethodPost, "/api/game/close")
	postClose.SetSummary("Close result")
	postClose.SetDescription("Dismisses the result without changing the current player.")
	postClose.AddRespStructure(game.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	postClose.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postClose)

	// PUT /api/game/player
	putPlayer, _ := r.NewOperationContext(http.MethodPut, "/api/game/player")
	putPlayer.SetSummary("Set current player")
	putPlayer.SetDescription("Chooses who plays next. Only allowed while the wheel is idle.")
	putPlayer.AddReqStructure(PlayerRequest{})
	putPlayer.AddRespStructure(game.Snapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	putPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(putPlayer)

	// DELETE /api/game
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/game")
	deleteGame.SetSummary("End game")
	deleteGame.SetDescription("Ends the caller's game and cancels a pending spin. The next request starts a fresh one.")
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(deleteGame)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game snapshots, starting with the current one.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/game/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/game/ws")
	getWS.SetSummary("Game WebSocket")
	getWS.SetDescription("Streams snapshots and accepts intents: " +
		`{"type":"spin"}, {"type":"finish"}, {"type":"close"}, {"type":"player","player":2}.`)
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("application/json"))
	_ = r.AddOperation(getWS)

	// POST /api/auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Creates an account and logs in. Sets the ruleta_user cookie.")
	postRegister.AddReqStructure(CredentialsRequest{})
	postRegister.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Login")
	postLogin.SetDescription("Authenticate with email and password. Sets the ruleta_user cookie.")
	postLogin.AddReqStructure(CredentialsRequest{})
	postLogin.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/auth/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	postLogout.SetSummary("Logout")
	postLogout.SetDescription("Clears the user session. Later requests use the anonymous identity.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/auth/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/auth/me")
	getMe.SetSummary("Current player")
	getMe.SetDescription("Returns the logged-in player.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
