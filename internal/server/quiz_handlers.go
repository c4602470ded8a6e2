package server

import (
	"net/http"
	"strconv"

	"quizdeck-server/internal/quiz"
)

// pathInt parses a positive integer path segment.
func pathInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(r.PathValue(name))
	if err != nil || value < 0 {
		return 0, quiz.InvalidInputf("%s must be a non-negative integer", name)
	}
	return value, nil
}

func (s *Server) quizCreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req QuizCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	quizID, err := s.quizManager.Create(userID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuizIDResponse{QuizID: quizID})
}

func (s *Server) quizListHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuizListResponse{Quizzes: s.quizManager.List(userID)})
}

func (s *Server) quizInfoHandler(w http.ResponseWriter, r *http.Request) {
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

	info, err := s.quizManager.Info(userID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) quizRemoveHandler(w http.ResponseWriter, r *http.Request) {
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

	if s.quizManager.HasActiveGames(quizID) {
		writeError(w, quiz.InvalidStatef("quiz still has games that are not in END state"))
		return
	}
	if err := s.quizManager.Remove(userID, quizID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) quizNameHandler(w http.ResponseWriter, r *http.Request) {
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

	var req QuizNameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.quizManager.UpdateName(userID, quizID, req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) quizDescriptionHandler(w http.ResponseWriter, r *http.Request) {
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

	var req QuizDescriptionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.quizManager.UpdateDescription(userID, quizID, req.Description); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) quizThumbnailHandler(w http.ResponseWriter, r *http.Request) {
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

	var req QuizThumbnailRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.quizManager.UpdateThumbnail(userID, quizID, req.ThumbnailURL); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) quizTransferHandler(w http.ResponseWriter, r *http.Request) {
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

	var req QuizTransferRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	newOwnerID, err := s.userManager.FindByEmail(req.UserEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.quizManager.Transfer(userID, quizID, newOwnerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) questionCreateHandler(w http.ResponseWriter, r *http.Request) {
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

	var input quiz.QuestionInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}
	questionID, err := s.quizManager.QuestionCreate(userID, quizID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuestionIDResponse{QuestionID: questionID})
}

func (s *Server) questionUpdateHandler(w http.ResponseWriter, r *http.Request) {
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
	questionID, err := pathInt(r, "questionid")
	if err != nil {
		writeError(w, err)
		return
	}

	var input quiz.QuestionInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if err := s.quizManager.QuestionUpdate(userID, quizID, questionID, input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) questionDeleteHandler(w http.ResponseWriter, r *http.Request) {
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
	questionID, err := pathInt(r, "questionid")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.quizManager.QuestionDelete(userID, quizID, questionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) questionMoveHandler(w http.ResponseWriter, r *http.Request) {
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
	questionID, err := pathInt(r, "questionid")
	if err != nil {
		writeError(w, err)
		return
	}

	var req QuestionMoveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.quizManager.QuestionMove(userID, quizID, questionID, req.NewPosition); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
