package server

import "net/http"

func (s *Server) playerJoinHandler(w http.ResponseWriter, r *http.Request) {
	var req PlayerJoinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	playerID, err := s.gameManager.PlayerJoin(req.GameID, req.PlayerName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PlayerIDResponse{PlayerID: playerID})
}

func (s *Server) playerStatusHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathInt(r, "playerid")
	if err != nil {
		writeError(w, err)
		return
	}

	status, err := s.gameManager.PlayerStatus(playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) playerQuestionHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathInt(r, "playerid")
	if err != nil {
		writeError(w, err)
		return
	}
	position, err := pathInt(r, "questionposition")
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := s.gameManager.PlayerQuestion(playerID, position)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) playerAnswerHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathInt(r, "playerid")
	if err != nil {
		writeError(w, err)
		return
	}
	position, err := pathInt(r, "questionposition")
	if err != nil {
		writeError(w, err)
		return
	}

	var req PlayerAnswerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.gameManager.PlayerAnswer(playerID, position, req.AnswerIDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
