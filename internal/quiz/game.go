package quiz

import (
	"fmt"
	"math/rand"
	"strconv"
)

// Submission is one player's recorded answer to a game question.
type Submission struct {
	PlayerID      int   `json:"playerId"`
	AnswerIDs     []int `json:"answerIds"`
	TimeSubmitted int64 `json:"timeSubmitted"`
}

// GameQuestion is a question as frozen into a game at launch, plus the
// submissions captured while the question was open. Authoring timestamps
// are stripped; they belong to the quiz aggregate, not the snapshot.
type GameQuestion struct {
	QuestionID    int          `json:"questionId"`
	Text          string       `json:"question"`
	TimeLimit     int          `json:"timeLimit"`
	ThumbnailURL  string       `json:"thumbnailUrl"`
	Points        int          `json:"points"`
	AnswerOptions []Answer     `json:"answerOptions"`
	Submissions   []Submission `json:"submissions"`
}

// Metadata is the deep copy of a quiz taken at game launch. It is the
// ruleset the game plays by; quiz edits after launch never reach it.
type Metadata struct {
	QuizID         int            `json:"quizId"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	TimeCreated    int64          `json:"timeCreated"`
	TimeLastEdited int64          `json:"timeLastEdited"`
	ThumbnailURL   string         `json:"thumbnailUrl"`
	NumQuestions   int            `json:"numQuestions"`
	Questions      []GameQuestion `json:"questions"`
}

// Player is a participant in a single game.
type Player struct {
	PlayerName   string `json:"playerName"`
	PlayerID     int    `json:"playerId"`
	NumQuestions int    `json:"numQuestions"`
	AtQuestion   int    `json:"atQuestion"`
}

// Game is a live instance of a quiz. AtQuestion is 1-based and 0 while the
// game sits in the lobby.
type Game struct {
	GameID          int       `json:"gameId"`
	QuizID          int       `json:"quizId"`
	IsActive        bool      `json:"isActive"`
	AutoStartNumber int       `json:"autoStartNumber"`
	State           GameState `json:"state"`
	AtQuestion      int       `json:"atQuestion"`
	Players         []Player  `json:"players"`
	Metadata        Metadata  `json:"metadata"`
}

// Snapshot deep-copies quiz into game metadata, stripping the owner and
// game-id bookkeeping fields along with per-question authoring timestamps.
func Snapshot(q *Quiz) Metadata {
	questions := make([]GameQuestion, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = GameQuestion{
			QuestionID:    question.QuestionID,
			Text:          question.Text,
			TimeLimit:     question.TimeLimit,
			ThumbnailURL:  question.ThumbnailURL,
			Points:        question.Points,
			AnswerOptions: append([]Answer(nil), question.AnswerOptions...),
			Submissions:   []Submission{},
		}
	}
	return Metadata{
		QuizID:         q.QuizID,
		Name:           q.Name,
		Description:    q.Description,
		TimeCreated:    q.TimeCreated,
		TimeLastEdited: q.TimeLastEdited,
		ThumbnailURL:   q.ThumbnailURL,
		NumQuestions:   len(q.Questions),
		Questions:      questions,
	}
}

// NewGame creates a game in the lobby from a quiz template.
func NewGame(gameID int, q *Quiz, autoStartNumber int) *Game {
	return &Game{
		GameID:          gameID,
		QuizID:          q.QuizID,
		IsActive:        true,
		AutoStartNumber: autoStartNumber,
		State:           StateLobby,
		AtQuestion:      0,
		Players:         []Player{},
		Metadata:        Snapshot(q),
	}
}

// FindPlayerByName returns the player with an exact (case-sensitive) name
// match, or nil.
func (g *Game) FindPlayerByName(name string) *Player {
	for i := range g.Players {
		if g.Players[i].PlayerName == name {
			return &g.Players[i]
		}
	}
	return nil
}

// FindPlayer returns the player with the given id, or nil.
func (g *Game) FindPlayer(playerID int) *Player {
	for i := range g.Players {
		if g.Players[i].PlayerID == playerID {
			return &g.Players[i]
		}
	}
	return nil
}

// GenerateRandomName builds a fallback player name of five mixed-case
// letters followed by three digits. Collisions with existing names are
// accepted rather than retried.
func GenerateRandomName() string {
	letters := make([]byte, 5)
	for i := range letters {
		if rand.Intn(2) == 0 {
			letters[i] = byte('A' + rand.Intn(26))
		} else {
			letters[i] = byte('a' + rand.Intn(26))
		}
	}
	return string(letters) + strconv.Itoa(100+rand.Intn(900))
}

// generatePlayerID concatenates the game id with a random 4-digit suffix,
// retrying until the result is unique within the game.
func (g *Game) generatePlayerID() int {
	for {
		suffix := 1000 + rand.Intn(9000)
		combined, _ := strconv.Atoi(fmt.Sprintf("%d%d", g.GameID, suffix))
		if g.FindPlayer(combined) == nil {
			return combined
		}
	}
}

// AddPlayer appends a new player, generating a name when none is supplied.
// Uniqueness of an explicitly supplied name is the caller's concern.
func (g *Game) AddPlayer(playerName string) Player {
	if playerName == "" {
		playerName = GenerateRandomName()
	}
	player := Player{
		PlayerName:   playerName,
		PlayerID:     g.generatePlayerID(),
		NumQuestions: len(g.Metadata.Questions),
		AtQuestion:   0,
	}
	g.Players = append(g.Players, player)
	return player
}

// PublicAnswer is an answer option with the correctness flag stripped, as
// shown to players.
type PublicAnswer struct {
	AnswerID int    `json:"answerId"`
	Text     string `json:"answer"`
	Colour   Colour `json:"color"`
}

// QuestionView is the player-facing view of the question a game is
// currently presenting.
type QuestionView struct {
	QuestionID    int            `json:"questionId"`
	Text          string         `json:"question"`
	TimeLimit     int            `json:"timeLimit"`
	ThumbnailURL  string         `json:"thumbnailUrl"`
	Points        int            `json:"points"`
	AnswerOptions []PublicAnswer `json:"answerOptions"`
}

// ViewQuestion builds the public view of the 1-based question position.
// Gating by game state and current position is the caller's concern.
func (g *Game) ViewQuestion(position int) QuestionView {
	question := g.Metadata.Questions[position-1]
	options := make([]PublicAnswer, len(question.AnswerOptions))
	for i, option := range question.AnswerOptions {
		options[i] = PublicAnswer{
			AnswerID: option.AnswerID,
			Text:     option.Text,
			Colour:   option.Colour,
		}
	}
	return QuestionView{
		QuestionID:    question.QuestionID,
		Text:          question.Text,
		TimeLimit:     question.TimeLimit,
		ThumbnailURL:  question.ThumbnailURL,
		Points:        question.Points,
		AnswerOptions: options,
	}
}

// RecordSubmission stores a player's answer set for the 1-based question
// position, replacing any earlier submission by the same player.
func (g *Game) RecordSubmission(position, playerID int, answerIDs []int, submittedAt int64) {
	question := &g.Metadata.Questions[position-1]
	entry := Submission{
		PlayerID:      playerID,
		AnswerIDs:     append([]int(nil), answerIDs...),
		TimeSubmitted: submittedAt,
	}
	for i := range question.Submissions {
		if question.Submissions[i].PlayerID == playerID {
			question.Submissions[i] = entry
			return
		}
	}
	question.Submissions = append(question.Submissions, entry)
}
