package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"quizdeck-server/internal/quiz"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("DELETE /v1/clear", s.clearHandler)
	mux.HandleFunc("/websocket", s.websocketHandler)

	mux.HandleFunc("POST /v1/admin/auth/register", s.registerHandler)
	mux.HandleFunc("POST /v1/admin/auth/login", s.loginHandler)
	mux.HandleFunc("POST /v1/admin/auth/logout", s.logoutHandler)
	mux.HandleFunc("GET /v1/admin/user/details", s.userDetailsHandler)
	mux.HandleFunc("PUT /v1/admin/user/details", s.userDetailsUpdateHandler)
	mux.HandleFunc("PUT /v1/admin/user/password", s.userPasswordHandler)

	mux.HandleFunc("GET /v1/admin/quiz/list", s.quizListHandler)
	mux.HandleFunc("POST /v1/admin/quiz", s.quizCreateHandler)
	mux.HandleFunc("GET /v1/admin/quiz/{quizid}", s.quizInfoHandler)
	mux.HandleFunc("DELETE /v1/admin/quiz/{quizid}", s.quizRemoveHandler)
	mux.HandleFunc("PUT /v1/admin/quiz/{quizid}/name", s.quizNameHandler)
	mux.HandleFunc("PUT /v1/admin/quiz/{quizid}/description", s.quizDescriptionHandler)
	mux.HandleFunc("PUT /v1/admin/quiz/{quizid}/thumbnail", s.quizThumbnailHandler)
	mux.HandleFunc("POST /v1/admin/quiz/{quizid}/transfer", s.quizTransferHandler)
	mux.HandleFunc("POST /v1/admin/quiz/{quizid}/question", s.questionCreateHandler)
	mux.HandleFunc("PUT /v1/admin/quiz/{quizid}/question/{questionid}", s.questionUpdateHandler)
	mux.HandleFunc("DELETE /v1/admin/quiz/{quizid}/question/{questionid}", s.questionDeleteHandler)
	mux.HandleFunc("PUT /v1/admin/quiz/{quizid}/question/{questionid}/move", s.questionMoveHandler)

	mux.HandleFunc("POST /v1/admin/quiz/{quizid}/game/start", s.gameStartHandler)
	mux.HandleFunc("GET /v1/admin/quiz/{quizid}/games", s.gameViewHandler)
	mux.HandleFunc("PUT /v1/admin/quiz/{quizid}/game/{gameid}", s.gameActionHandler)
	mux.HandleFunc("GET /v1/admin/quiz/{quizid}/game/{gameid}", s.gameStatusHandler)
	mux.HandleFunc("GET /v1/admin/quiz/{quizid}/game/{gameid}/results", s.gameResultsHandler)

	mux.HandleFunc("POST /v1/player/join", s.playerJoinHandler)
	mux.HandleFunc("GET /v1/player/{playerid}", s.playerStatusHandler)
	mux.HandleFunc("GET /v1/player/{playerid}/question/{questionposition}", s.playerQuestionHandler)
	mux.HandleFunc("PUT /v1/player/{playerid}/question/{questionposition}/answer", s.playerAnswerHandler)

	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON serializes payload with the given status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// writeError maps a domain error kind to a status code. Anything without a
// kind is an internal failure.
func writeError(w http.ResponseWriter, err error) {
	kind := quiz.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case quiz.KindNotFound:
		status = http.StatusNotFound
	case quiz.KindInvalidState, quiz.KindInvalidInput:
		status = http.StatusBadRequest
	case quiz.KindConflict:
		status = http.StatusConflict
	case quiz.KindUnauthorized:
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return quiz.InvalidInputf("request body is not valid JSON")
	}
	return nil
}

// authenticate resolves the Authorization token into the user it belongs to.
func (s *Server) authenticate(r *http.Request) (int, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return 0, quiz.Unauthorizedf("token is missing")
	}
	session, err := s.sessionStore.Lookup(r.Context(), token)
	if err != nil {
		return 0, err
	}
	return session.UserID, nil
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

// clearHandler resets every manager. Test support, mirrored by Clear on
// each manager.
func (s *Server) clearHandler(w http.ResponseWriter, r *http.Request) {
	s.gameManager.Clear()
	s.quizManager.Clear()
	s.userManager.Clear()

	sessions, err := s.sessionStore.All(r.Context())
	if err == nil {
		for _, session := range sessions {
			if err := s.sessionStore.Remove(r.Context(), session.Token); err != nil {
				log.Printf("Failed to remove session during clear: %v", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, struct{}{})
}

// websocketHandler accepts an observer connection. The client sends
// {"gameId": N} to subscribe; every transition of that game is then pushed
// as a JSON event.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer socket.Close(websocket.StatusGoingAway, "Server closing")

	ctx := r.Context()
	connectionID := uuid.New().String()
	log.Printf("New connection: %s", connectionID)
	s.connectionManager.AddConnection(connectionID, socket)
	defer func() {
		s.connectionManager.RemoveConnection(connectionID)
		log.Printf("Connection closed: %s", connectionID)
	}()

	for {
		msgType, data, err := socket.Read(ctx)
		if err != nil {
			return
		}
		if msgType != websocket.MessageText {
			log.Printf("Non-text input from %s", connectionID)
			continue
		}

		var req SubscribeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("Invalid JSON from %s: %v", connectionID, err)
			continue
		}
		s.connectionManager.Subscribe(connectionID, req.GameID)
		log.Printf("Connection %s subscribed to game %d", connectionID, req.GameID)
	}
}
