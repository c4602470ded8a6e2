package server

import "quizdeck-server/internal/quiz"

// Request bodies.

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	NameFirst string `json:"nameFirst"`
	NameLast  string `json:"nameLast"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDetailsRequest struct {
	Email     string `json:"email"`
	NameFirst string `json:"nameFirst"`
	NameLast  string `json:"nameLast"`
}

type PasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type QuizCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type QuizNameRequest struct {
	Name string `json:"name"`
}

type QuizDescriptionRequest struct {
	Description string `json:"description"`
}

type QuizThumbnailRequest struct {
	ThumbnailURL string `json:"thumbnailUrl"`
}

type QuizTransferRequest struct {
	UserEmail string `json:"userEmail"`
}

type QuestionMoveRequest struct {
	NewPosition int `json:"newPosition"`
}

type GameStartRequest struct {
	AutoStartNum int `json:"autoStartNum"`
}

type GameActionRequest struct {
	Action string `json:"action"`
}

type PlayerJoinRequest struct {
	GameID     int    `json:"gameId"`
	PlayerName string `json:"playerName"`
}

type PlayerAnswerRequest struct {
	AnswerIDs []int `json:"answerIds"`
}

type SubscribeRequest struct {
	GameID int `json:"gameId"`
}

// Response bodies.

type TokenResponse struct {
	Token string `json:"token"`
}

type QuizIDResponse struct {
	QuizID int `json:"quizId"`
}

type QuestionIDResponse struct {
	QuestionID int `json:"questionId"`
}

type GameIDResponse struct {
	GameID int `json:"gameId"`
}

type PlayerIDResponse struct {
	PlayerID int `json:"playerId"`
}

type QuizListResponse struct {
	Quizzes []QuizSummary `json:"quizzes"`
}

type GameViewResponse struct {
	ActiveGames   []int `json:"activeGames"`
	InactiveGames []int `json:"inactiveGames"`
}

type UserDetailsResponse struct {
	User UserDetails `json:"user"`
}

type ErrorResponse struct {
	Error string    `json:"error"`
	Kind  quiz.Kind `json:"kind"`
}
