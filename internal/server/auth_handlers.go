package server

import (
	"net/http"

	"github.com/google/uuid"

	"quizdeck-server/internal/quiz"
)

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	userID, err := s.userManager.Register(req.Email, req.Password, req.NameFirst, req.NameLast)
	if err != nil {
		writeError(w, err)
		return
	}

	token := uuid.New().String()
	if err := s.sessionStore.Put(r.Context(), AdminSession{Token: token, UserID: userID}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	userID, err := s.userManager.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token := uuid.New().String()
	if err := s.sessionStore.Put(r.Context(), AdminSession{Token: token, UserID: userID}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if token == "" {
		writeError(w, quiz.Unauthorizedf("token is missing"))
		return
	}
	if _, err := s.sessionStore.Lookup(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	if err := s.sessionStore.Remove(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) userDetailsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := s.userManager.Details(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserDetailsResponse{User: details})
}

func (s *Server) userDetailsUpdateHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req UserDetailsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.userManager.UpdateDetails(userID, req.Email, req.NameFirst, req.NameLast); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) userPasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req PasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.userManager.UpdatePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
