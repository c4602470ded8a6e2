package server

import (
	"net/http"

	"quizdeck-server/internal/quiz"
)

// resolveGame checks ownership of the quiz and that the game was launched
// from it.
func (s *Server) resolveGame(r *http.Request) (quizID, gameID int, err error) {
	userID, err := s.authenticate(r)
	if err != nil {
		return 0, 0, err
	}
	quizID, err = pathInt(r, "quizid")
	if err != nil {
		return 0, 0, err
	}
	gameID, err = pathInt(r, "gameid")
	if err != nil {
		return 0, 0, err
	}
	if _, err := s.quizManager.Info(userID, quizID); err != nil {
		return 0, 0, err
	}
	if !s.gameManager.QuizHasGame(quizID, gameID) {
		return 0, 0, quiz.NotFoundf("gameId does not belong to this quiz")
	}
	return quizID, gameID, nil
}

func (s *Server) gameStartHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quizID, err := pathInt(r, "quizid")
	if err != nil {
		writeError(w, err)
		return
	}

	var req GameStartRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	info, err := s.quizManager.Info(userID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	gameID, err := s.gameManager.StartGame(info, req.AutoStartNum)
	if err != nil {
		writeError(w, err)
		return
	}
	s.quizManager.AttachGameID(quizID, gameID)
	writeJSON(w, http.StatusOK, GameIDResponse{GameID: gameID})
}

func (s *Server) gameActionHandler(w http.ResponseWriter, r *http.Request) {
	_, gameID, err := s.resolveGame(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req GameActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !quiz.IsGameAction(req.Action) {
		writeError(w, quiz.InvalidInputf("action is not a valid game action"))
		return
	}
	if err := s.gameManager.DoAction(gameID, quiz.GameAction(req.Action)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) gameStatusHandler(w http.ResponseWriter, r *http.Request) {
	_, gameID, err := s.resolveGame(r)
	if err != nil {
		writeError(w, err)
		return
	}

	status, err := s.gameManager.Status(gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) gameResultsHandler(w http.ResponseWriter, r *http.Request) {
	_, gameID, err := s.resolveGame(r)
	if err != nil {
		writeError(w, err)
		return
	}

	results, err := s.gameManager.Results(gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) gameViewHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quizID, err := pathInt(r, "quizid")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.quizManager.Info(userID, quizID); err != nil {
		writeError(w, err)
		return
	}

	active, inactive := s.gameManager.GamesForQuiz(quizID)
	writeJSON(w, http.StatusOK, GameViewResponse{ActiveGames: active, InactiveGames: inactive})
}
