package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"quizdeck-server/internal/quiz"
)

func questionInput(text string, timeLimit int) quiz.QuestionInput {
	return quiz.QuestionInput{
		Text:      text,
		TimeLimit: timeLimit,
		Points:    5,
		AnswerOptions: []quiz.AnswerInput{
			{Text: "Right", Correct: true},
			{Text: "Wrong", Correct: false},
		},
	}
}

func TestQuizCreateValidation(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()

	_, err := qm.Create(1, "ab", "")
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))

	_, err = qm.Create(1, strings.Repeat("a", 31), "")
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))

	_, err = qm.Create(1, "bad name!", "")
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))

	_, err = qm.Create(1, "My Quiz", strings.Repeat("d", 101))
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))

	quizID, err := qm.Create(1, "My Quiz", "a description")
	assert.NoError(err)
	assert.Equal(0, quizID)
}

func TestQuizNameUniquePerOwner(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()

	_, err := qm.Create(1, "My Quiz", "")
	assert.NoError(err)

	_, err = qm.Create(1, "My Quiz", "")
	assert.Equal(quiz.KindConflict, quiz.KindOf(err))

	// A different owner can reuse the name.
	_, err = qm.Create(2, "My Quiz", "")
	assert.NoError(err)
}

func TestQuizListSortedAscending(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()

	a, _ := qm.Create(1, "First", "")
	b, _ := qm.Create(1, "Second", "")
	qm.Create(2, "Other owner", "")

	list := qm.List(1)
	assert.Len(list, 2)
	assert.Equal(a, list[0].QuizID)
	assert.Equal(b, list[1].QuizID)
}

func TestQuizInfoOwnership(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()

	quizID, _ := qm.Create(1, "My Quiz", "")

	_, err := qm.Info(2, quizID)
	assert.Equal(quiz.KindUnauthorized, quiz.KindOf(err))

	_, err = qm.Info(1, 99)
	assert.Equal(quiz.KindNotFound, quiz.KindOf(err))

	info, err := qm.Info(1, quizID)
	assert.NoError(err)
	assert.Equal("My Quiz", info.Name)
}

func TestQuizInfoReturnsCopy(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()

	quizID, _ := qm.Create(1, "My Quiz", "")
	info, _ := qm.Info(1, quizID)
	info.Name = "Mutated"

	fresh, _ := qm.Info(1, quizID)
	assert.Equal("My Quiz", fresh.Name)
}

func TestQuizUpdateName(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()

	first, _ := qm.Create(1, "First", "")
	qm.Create(1, "Second", "")

	err := qm.UpdateName(1, first, "Second")
	assert.Equal(quiz.KindConflict, quiz.KindOf(err))

	assert.NoError(qm.UpdateName(1, first, "Renamed"))
	info, _ := qm.Info(1, first)
	assert.Equal("Renamed", info.Name)
}

func TestQuizTransfer(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()

	quizID, _ := qm.Create(1, "My Quiz", "")

	err := qm.Transfer(1, quizID, 1)
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))

	qm.Create(2, "My Quiz", "")
	err = qm.Transfer(1, quizID, 2)
	assert.Equal(quiz.KindConflict, quiz.KindOf(err))

	quizID2, _ := qm.Create(1, "Another Quiz", "")
	assert.NoError(qm.Transfer(1, quizID2, 2))
	_, err = qm.Info(2, quizID2)
	assert.NoError(err)
}

func TestQuizThumbnailValidation(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()

	quizID, _ := qm.Create(1, "My Quiz", "")

	err := qm.UpdateThumbnail(1, quizID, "https://example.com/pic.gif")
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))

	assert.NoError(qm.UpdateThumbnail(1, quizID, "https://example.com/pic.png"))
}

func TestQuestionCreateAssignsIDs(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()
	quizID, _ := qm.Create(1, "My Quiz", "")

	first, err := qm.QuestionCreate(1, quizID, questionInput("Question one?", 10))
	assert.NoError(err)
	assert.Equal(0, first)

	second, err := qm.QuestionCreate(1, quizID, questionInput("Question two?", 10))
	assert.NoError(err)
	assert.Equal(1, second)

	// Delete the first; the next id continues past the highest ever used.
	assert.NoError(qm.QuestionDelete(1, quizID, first))
	third, err := qm.QuestionCreate(1, quizID, questionInput("Question three?", 10))
	assert.NoError(err)
	assert.Equal(2, third)
}

func TestQuestionCreateEnforcesTotalTime(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()
	quizID, _ := qm.Create(1, "My Quiz", "")

	_, err := qm.QuestionCreate(1, quizID, questionInput("Question one?", 170))
	assert.NoError(err)

	_, err = qm.QuestionCreate(1, quizID, questionInput("Question two?", 11))
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))

	_, err = qm.QuestionCreate(1, quizID, questionInput("Question two?", 10))
	assert.NoError(err)
}

func TestQuestionUpdateExcludesOwnTimeLimit(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()
	quizID, _ := qm.Create(1, "My Quiz", "")

	questionID, _ := qm.QuestionCreate(1, quizID, questionInput("Question one?", 100))

	// Replacing the 100s question with a 170s one stays within budget.
	assert.NoError(qm.QuestionUpdate(1, quizID, questionID, questionInput("Updated text?", 170)))

	info, _ := qm.Info(1, quizID)
	assert.Equal("Updated text?", info.Questions[0].Text)
	assert.Equal(170, info.Questions[0].TimeLimit)
	assert.Equal(questionID, info.Questions[0].QuestionID)
}

func TestQuestionMove(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()
	quizID, _ := qm.Create(1, "My Quiz", "")

	a, _ := qm.QuestionCreate(1, quizID, questionInput("Question A?", 10))
	b, _ := qm.QuestionCreate(1, quizID, questionInput("Question B?", 10))
	c, _ := qm.QuestionCreate(1, quizID, questionInput("Question C?", 10))

	err := qm.QuestionMove(1, quizID, a, 3)
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))

	err = qm.QuestionMove(1, quizID, a, 0)
	assert.Equal(quiz.KindInvalidInput, quiz.KindOf(err))

	assert.NoError(qm.QuestionMove(1, quizID, a, 2))

	info, _ := qm.Info(1, quizID)
	assert.Equal(b, info.Questions[0].QuestionID)
	assert.Equal(c, info.Questions[1].QuestionID)
	assert.Equal(a, info.Questions[2].QuestionID)
}

func TestGameBookkeeping(t *testing.T) {
	assert := assert.New(t)
	qm := NewQuizManager()
	quizID, _ := qm.Create(1, "My Quiz", "")

	qm.AttachGameID(quizID, 5)
	assert.True(qm.HasActiveGames(quizID))

	qm.MoveGameToInactive(quizID, 5)
	assert.False(qm.HasActiveGames(quizID))

	info, _ := qm.Info(1, quizID)
	assert.Empty(info.ActiveGameIDs)
	assert.Equal([]int{5}, info.InactiveGameIDs)
}
