package quiz

// GameState is the lifecycle position of a live game. LOBBY is initial and
// END is terminal.
type GameState string

const (
	StateLobby             GameState = "LOBBY"
	StateQuestionCountdown GameState = "QUESTION_COUNTDOWN"
	StateQuestionOpen      GameState = "QUESTION_OPEN"
	StateQuestionClose     GameState = "QUESTION_CLOSE"
	StateAnswerShow        GameState = "ANSWER_SHOW"
	StateFinalResults      GameState = "FINAL_RESULTS"
	StateEnd               GameState = "END"
)

// GameAction is an externally invocable transition. The two automatic
// transitions (countdown expiry and question-close expiry) are timer-driven
// and have no action value.
type GameAction string

const (
	ActionEnd              GameAction = "END"
	ActionNextQuestion     GameAction = "NEXT_QUESTION"
	ActionSkipCountdown    GameAction = "SKIP_COUNTDOWN"
	ActionGoToAnswer       GameAction = "GO_TO_ANSWER"
	ActionGoToFinalResults GameAction = "GO_TO_FINAL_RESULTS"
)

// IsGameState reports whether value names a known state.
func IsGameState(value string) bool {
	switch GameState(value) {
	case StateLobby, StateQuestionCountdown, StateQuestionOpen,
		StateQuestionClose, StateAnswerShow, StateFinalResults, StateEnd:
		return true
	}
	return false
}

// IsGameAction reports whether value names a known action.
func IsGameAction(value string) bool {
	switch GameAction(value) {
	case ActionEnd, ActionNextQuestion, ActionSkipCountdown,
		ActionGoToAnswer, ActionGoToFinalResults:
		return true
	}
	return false
}

// ValidTransition is the legality table for the game state machine. END is
// accepted from every state except END itself; the remaining actions are
// only legal from their listed source states.
func ValidTransition(state GameState, action GameAction) bool {
	switch action {
	case ActionEnd:
		return state != StateEnd
	case ActionNextQuestion:
		switch state {
		case StateLobby, StateQuestionClose, StateAnswerShow:
			return true
		}
		return false
	case ActionSkipCountdown:
		return state == StateQuestionCountdown
	case ActionGoToAnswer:
		switch state {
		case StateQuestionOpen, StateQuestionClose:
			return true
		}
		return false
	case ActionGoToFinalResults:
		switch state {
		case StateQuestionClose, StateAnswerShow:
			return true
		}
		return false
	}
	return false
}
