package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quizdeck-server/internal/quiz"
)

func testQuiz(quizID int) *quiz.Quiz {
	return &quiz.Quiz{
		QuizID:    quizID,
		Name:      "Geography",
		CreatedBy: 1,
		Questions: []quiz.Question{
			quiz.BuildQuestion(0, quiz.QuestionInput{
				Text:      "Capital of France?",
				TimeLimit: 10,
				Points:    5,
				AnswerOptions: []quiz.AnswerInput{
					{Text: "Paris", Correct: true},
					{Text: "Lyon", Correct: false},
				},
			}, 0),
			quiz.BuildQuestion(1, quiz.QuestionInput{
				Text:      "Capital of Spain?",
				TimeLimit: 20,
				Points:    5,
				AnswerOptions: []quiz.AnswerInput{
					{Text: "Madrid", Correct: true},
					{Text: "Barcelona", Correct: false},
				},
			}, 0),
		},
	}
}

func newTestManager() (*GameManager, *fakeScheduler) {
	scheduler := newFakeScheduler()
	return NewGameManager(scheduler), scheduler
}

func TestStartGameAssignsSequentialIDs(t *testing.T) {
	assert := assert.New(t)
	gm, _ := newTestManager()

	first, err := gm.StartGame(testQuiz(1), 0)
	assert.NoError(err)
	assert.Equal(0, first)

	second, err := gm.StartGame(testQuiz(1), 0)
	assert.NoError(err)
	assert.Equal(1, second)

	// Ending a game must not free its id for reuse.
	assert.NoError(gm.DoAction(second, quiz.ActionEnd))
	third, err := gm.StartGame(testQuiz(1), 0)
	assert.NoError(err)
	assert.Equal(2, third)
}

func TestStartGameRejectsEmptyQuiz(t *testing.T) {
	assert := assert.New(t)
	gm, _ := newTestManager()

	q := testQuiz(1)
	q.Questions = nil
	_, err := gm.StartGame(q, 0)

	assert.Error(err)
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))
}

func TestStartGameRejectsHighAutoStart(t *testing.T) {
	assert := assert.New(t)
	gm, _ := newTestManager()

	_, err := gm.StartGame(testQuiz(1), MaxAutoStartNumber+1)
	assert.Error(err)
}

func TestStartGameLimitsActiveGamesPerQuiz(t *testing.T) {
	assert := assert.New(t)
	gm, _ := newTestManager()

	for i := 0; i < MaxActiveGamesPerQuiz; i++ {
		_, err := gm.StartGame(testQuiz(1), 0)
		assert.NoError(err)
	}
	_, err := gm.StartGame(testQuiz(1), 0)
	assert.Error(err)

	// Another quiz is unaffected.
	_, err = gm.StartGame(testQuiz(2), 0)
	assert.NoError(err)
}

func TestStartGameSnapshotsQuiz(t *testing.T) {
	assert := assert.New(t)
	gm, _ := newTestManager()

	q := testQuiz(1)
	gameID, err := gm.StartGame(q, 0)
	assert.NoError(err)

	q.Questions[0].Text = "Edited after launch"

	status, err := gm.Status(gameID)
	assert.NoError(err)
	assert.Equal("Capital of France?", status.Metadata.Questions[0].Text)
}

func TestDoActionUnknownGame(t *testing.T) {
	gm, _ := newTestManager()

	err := gm.DoAction(99, quiz.ActionEnd)
	assert.Equal(t, quiz.KindNotFound, quiz.KindOf(err))
}

func TestDoActionIllegalPairLeavesGameUntouched(t *testing.T) {
	assert := assert.New(t)
	gm, _ := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)

	err := gm.DoAction(gameID, quiz.ActionGoToAnswer)
	assert.Equal(quiz.KindInvalidState, quiz.KindOf(err))

	status, _ := gm.Status(gameID)
	assert.Equal(quiz.StateLobby, status.State)
	assert.Equal(0, status.AtQuestion)
}

func TestNextQuestionSchedulesCountdown(t *testing.T) {
	assert := assert.New(t)
	gm, scheduler := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	assert.NoError(gm.DoAction(gameID, quiz.ActionNextQuestion))

	status, _ := gm.Status(gameID)
	assert.Equal(quiz.StateQuestionCountdown, status.State)
	assert.Equal(1, status.AtQuestion)
	assert.Equal(CountdownDuration, scheduler.lastDelay())
}

func TestCountdownExpiryOpensQuestion(t *testing.T) {
	assert := assert.New(t)
	gm, scheduler := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	gm.DoAction(gameID, quiz.ActionNextQuestion)

	scheduler.fireLast()

	status, _ := gm.Status(gameID)
	assert.Equal(quiz.StateQuestionOpen, status.State)
	// The open question schedules its own close timer for its time limit.
	assert.Equal(10*time.Second, scheduler.lastDelay())
}

func TestSkipCountdownOpensQuestionEarly(t *testing.T) {
	assert := assert.New(t)
	gm, scheduler := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	gm.DoAction(gameID, quiz.ActionNextQuestion)
	assert.NoError(gm.DoAction(gameID, quiz.ActionSkipCountdown))

	status, _ := gm.Status(gameID)
	assert.Equal(quiz.StateQuestionOpen, status.State)

	// The superseded countdown timer is a no-op when it fires late.
	scheduler.fire(0)
	status, _ = gm.Status(gameID)
	assert.Equal(quiz.StateQuestionOpen, status.State)
}

func TestQuestionTimeoutClosesQuestion(t *testing.T) {
	assert := assert.New(t)
	gm, scheduler := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	gm.DoAction(gameID, quiz.ActionNextQuestion)
	scheduler.fireLast()

	scheduler.fireLast()

	status, _ := gm.Status(gameID)
	assert.Equal(quiz.StateQuestionClose, status.State)
}

func TestGoToAnswerCancelsCloseTimer(t *testing.T) {
	assert := assert.New(t)
	gm, scheduler := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	gm.DoAction(gameID, quiz.ActionNextQuestion)
	scheduler.fireLast()

	assert.NoError(gm.DoAction(gameID, quiz.ActionGoToAnswer))

	// The stale close timer must not drag the game to QUESTION_CLOSE.
	scheduler.fireLast()
	status, _ := gm.Status(gameID)
	assert.Equal(quiz.StateAnswerShow, status.State)
}

func TestSecondQuestionUsesItsOwnTimeLimit(t *testing.T) {
	assert := assert.New(t)
	gm, scheduler := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	gm.DoAction(gameID, quiz.ActionNextQuestion)
	gm.DoAction(gameID, quiz.ActionSkipCountdown)
	gm.DoAction(gameID, quiz.ActionGoToAnswer)
	gm.DoAction(gameID, quiz.ActionNextQuestion)
	gm.DoAction(gameID, quiz.ActionSkipCountdown)

	assert.Equal(20*time.Second, scheduler.lastDelay())

	status, _ := gm.Status(gameID)
	assert.Equal(2, status.AtQuestion)
}

func TestEndMovesGameToInactive(t *testing.T) {
	assert := assert.New(t)
	gm, _ := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	assert.NoError(gm.DoAction(gameID, quiz.ActionEnd))

	status, err := gm.Status(gameID)
	assert.NoError(err)
	assert.Equal(quiz.StateEnd, status.State)

	active, inactive := gm.GamesForQuiz(1)
	assert.Empty(active)
	assert.Equal([]int{gameID}, inactive)

	// END is terminal.
	err = gm.DoAction(gameID, quiz.ActionEnd)
	assert.Equal(quiz.KindInvalidState, quiz.KindOf(err))
}

func TestEndDuringCountdownCancelsTimer(t *testing.T) {
	assert := assert.New(t)
	gm, scheduler := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	gm.DoAction(gameID, quiz.ActionNextQuestion)
	assert.NoError(gm.DoAction(gameID, quiz.ActionEnd))

	scheduler.fire(0)

	status, _ := gm.Status(gameID)
	assert.Equal(quiz.StateEnd, status.State)
}

func TestTransitionHookReceivesEvents(t *testing.T) {
	assert := assert.New(t)
	gm, scheduler := newTestManager()

	var events []GameEvent
	gm.SetTransitionHook(func(event GameEvent) {
		events = append(events, event)
	})

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	gm.DoAction(gameID, quiz.ActionNextQuestion)
	scheduler.fireLast()

	assert.Len(events, 2)
	assert.Equal(quiz.StateQuestionCountdown, events[0].State)
	assert.Equal(quiz.StateQuestionOpen, events[1].State)
	assert.Equal(1, events[1].QuizID)
}

func TestGamesForQuizSortedAscending(t *testing.T) {
	assert := assert.New(t)
	gm, _ := newTestManager()

	a, _ := gm.StartGame(testQuiz(1), 0)
	b, _ := gm.StartGame(testQuiz(1), 0)
	c, _ := gm.StartGame(testQuiz(1), 0)
	gm.DoAction(b, quiz.ActionEnd)

	active, inactive := gm.GamesForQuiz(1)
	assert.Equal([]int{a, c}, active)
	assert.Equal([]int{b}, inactive)
}

func TestRestoreSplitsGamesBySet(t *testing.T) {
	assert := assert.New(t)
	gm, _ := newTestManager()

	games := []quiz.Game{
		{GameID: 3, QuizID: 1, IsActive: true, State: quiz.StateLobby},
		{GameID: 5, QuizID: 1, IsActive: false, State: quiz.StateEnd},
	}
	gm.Restore(games)

	active, inactive := gm.GamesForQuiz(1)
	assert.Equal([]int{3}, active)
	assert.Equal([]int{5}, inactive)

	// New ids continue past restored ones.
	gameID, _ := gm.StartGame(testQuiz(1), 0)
	assert.Equal(6, gameID)
}

func TestClearCancelsTimers(t *testing.T) {
	assert := assert.New(t)
	gm, scheduler := newTestManager()

	gameID, _ := gm.StartGame(testQuiz(1), 0)
	gm.DoAction(gameID, quiz.ActionNextQuestion)

	gm.Clear()
	scheduler.fire(0)

	_, err := gm.Status(gameID)
	assert.Equal(quiz.KindNotFound, quiz.KindOf(err))
}
