package server

import (
	"quizdeck-server/internal/quiz"
)

// PlayerStatus is the player-facing status view. AtQuestion reflects the
// game's current question pointer; the per-player pointer is kept in sync
// with it in the current design.
type PlayerStatus struct {
	State        quiz.GameState `json:"state"`
	NumQuestions int            `json:"numQuestions"`
	AtQuestion   int            `json:"atQuestion"`
}

// PlayerJoin adds a player to a lobby game. An empty name gets a random
// one (five letters, three digits) that is accepted without a uniqueness
// check; a supplied name must be unique within the game, case-sensitively.
// When the join brings the player count up to the auto-start threshold the
// first question's countdown begins immediately. A threshold of 0 never
// triggers, because the count is compared after the append.
func (gm *GameManager) PlayerJoin(gameID int, playerName string) (int, error) {
	if !quiz.ValidName(playerName) {
		return 0, quiz.InvalidInputf("name contains invalid characters")
	}

	gm.mu.Lock()
	game, err := gm.findGameLocked(gameID)
	if err != nil {
		gm.mu.Unlock()
		return 0, err
	}
	if game.State != quiz.StateLobby {
		gm.mu.Unlock()
		return 0, quiz.InvalidStatef("game is not in a lobby state")
	}
	if playerName != "" && game.FindPlayerByName(playerName) != nil {
		gm.mu.Unlock()
		return 0, quiz.Conflictf("name is not unique")
	}

	player := game.AddPlayer(playerName)

	event := eventFor(game)
	if len(game.Players) == game.AutoStartNumber {
		event = gm.applyTransitionLocked(game, quiz.ActionNextQuestion)
	}
	gm.mu.Unlock()

	gm.emit(event)
	return player.PlayerID, nil
}

// findGameByPlayerLocked scans every game, active and inactive, for the
// player id.
func (gm *GameManager) findGameByPlayerLocked(playerID int) (*quiz.Game, error) {
	for _, game := range gm.activeGames {
		if game.FindPlayer(playerID) != nil {
			return game, nil
		}
	}
	for _, game := range gm.inactiveGames {
		if game.FindPlayer(playerID) != nil {
			return game, nil
		}
	}
	return nil, quiz.NotFoundf("playerId does not exist")
}

// PlayerStatus reports the owning game's state and question position.
func (gm *GameManager) PlayerStatus(playerID int) (PlayerStatus, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	game, err := gm.findGameByPlayerLocked(playerID)
	if err != nil {
		return PlayerStatus{}, err
	}
	return PlayerStatus{
		State:        game.State,
		NumQuestions: game.Metadata.NumQuestions,
		AtQuestion:   game.AtQuestion,
	}, nil
}

// PlayerQuestion returns the public view of the question the game is
// currently presenting. Players may only look at the live question, and
// only while it is open, closed, or its answer is being shown; the correct
// flags are stripped from every option.
func (gm *GameManager) PlayerQuestion(playerID, questionPosition int) (quiz.QuestionView, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	game, err := gm.findGameByPlayerLocked(playerID)
	if err != nil {
		return quiz.QuestionView{}, err
	}
	if questionPosition < 1 || questionPosition > game.Metadata.NumQuestions {
		return quiz.QuestionView{}, quiz.InvalidInputf("invalid question position")
	}
	if questionPosition != game.AtQuestion {
		return quiz.QuestionView{}, quiz.InvalidStatef("game is not currently on this question")
	}
	switch game.State {
	case quiz.StateLobby, quiz.StateQuestionCountdown, quiz.StateFinalResults, quiz.StateEnd:
		return quiz.QuestionView{}, quiz.InvalidStatef("game is in an invalid state")
	}
	return game.ViewQuestion(questionPosition), nil
}

// PlayerAnswer records a player's answer set for the question the game is
// currently presenting. Submissions are only accepted while the question
// is open; a resubmission replaces the earlier one.
func (gm *GameManager) PlayerAnswer(playerID, questionPosition int, answerIDs []int) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	game, err := gm.findGameByPlayerLocked(playerID)
	if err != nil {
		return err
	}
	if questionPosition < 1 || questionPosition > game.Metadata.NumQuestions {
		return quiz.InvalidInputf("invalid question position")
	}
	if questionPosition != game.AtQuestion {
		return quiz.InvalidStatef("game is not currently on this question")
	}
	if game.State != quiz.StateQuestionOpen {
		return quiz.InvalidStatef("question is not open for answers")
	}
	if len(answerIDs) == 0 {
		return quiz.InvalidInputf("at least one answer id is required")
	}

	question := game.Metadata.Questions[questionPosition-1]
	valid := make(map[int]bool, len(question.AnswerOptions))
	for _, option := range question.AnswerOptions {
		valid[option.AnswerID] = true
	}
	seen := make(map[int]bool, len(answerIDs))
	for _, id := range answerIDs {
		if !valid[id] {
			return quiz.InvalidInputf("answerId %d is not an option for this question", id)
		}
		if seen[id] {
			return quiz.InvalidInputf("duplicate answerIds are not allowed")
		}
		seen[id] = true
	}

	game.RecordSubmission(questionPosition, playerID, answerIDs, gm.now())
	return nil
}
