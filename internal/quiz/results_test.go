package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quizdeck-server/internal/quiz"
)

// resultsGame builds a FINAL_RESULTS game with one question worth 6 points
// where answers 0 and 2 are correct, plus three named players.
func resultsGame(t *testing.T) (*quiz.Game, []quiz.Player) {
	t.Helper()

	q := &quiz.Quiz{
		QuizID: 1,
		Questions: []quiz.Question{
			quiz.BuildQuestion(0, quiz.QuestionInput{
				Text:      "Pick both primary answers",
				TimeLimit: 10,
				Points:    6,
				AnswerOptions: []quiz.AnswerInput{
					{Text: "First", Correct: true},
					{Text: "Second", Correct: false},
					{Text: "Third", Correct: true},
				},
			}, 0),
		},
	}
	game := quiz.NewGame(0, q, 0)
	players := []quiz.Player{
		game.AddPlayer("Alice"),
		game.AddPlayer("Bob"),
		game.AddPlayer("Carol"),
	}
	game.State = quiz.StateFinalResults
	game.AtQuestion = 1
	return game, players
}

func TestResultsRequiresFinalResultsState(t *testing.T) {
	game, _ := resultsGame(t)
	game.State = quiz.StateAnswerShow

	_, err := quiz.Results(game)
	assert.Error(t, err)
	assert.Equal(t, quiz.KindInvalidState, quiz.KindOf(err))
}

func TestResultsExactSetCorrectness(t *testing.T) {
	assert := assert.New(t)
	game, players := resultsGame(t)

	// Alice answers the exact correct set, order reversed. Bob answers a
	// strict subset. Carol adds a wrong extra.
	game.RecordSubmission(1, players[0].PlayerID, []int{2, 0}, 100)
	game.RecordSubmission(1, players[1].PlayerID, []int{0}, 110)
	game.RecordSubmission(1, players[2].PlayerID, []int{0, 1, 2}, 120)

	results, err := quiz.Results(game)
	assert.NoError(err)

	assert.Equal([]string{"Alice"}, results.QuestionResults[0].PlayersCorrect)
	assert.Equal(33, results.QuestionResults[0].PercentCorrect)
	assert.Equal(100, results.QuestionResults[0].AverageAnswerTime)
}

func TestResultsHarmonicScoring(t *testing.T) {
	assert := assert.New(t)
	game, players := resultsGame(t)

	// All three correct; order of submission decides the decay.
	game.RecordSubmission(1, players[1].PlayerID, []int{0, 2}, 50)
	game.RecordSubmission(1, players[0].PlayerID, []int{0, 2}, 75)
	game.RecordSubmission(1, players[2].PlayerID, []int{0, 2}, 100)

	results, err := quiz.Results(game)
	assert.NoError(err)

	// 6 points: first 6, second round(6/2)=3, third round(6/3)=2.
	scores := map[string]int{}
	for _, row := range results.UsersRankedByScore {
		scores[row.PlayerName] = row.Score
	}
	assert.Equal(6, scores["Bob"])
	assert.Equal(3, scores["Alice"])
	assert.Equal(2, scores["Carol"])

	assert.Equal(75, results.QuestionResults[0].AverageAnswerTime)
	assert.Equal(100, results.QuestionResults[0].PercentCorrect)
}

func TestResultsCompetitionRanking(t *testing.T) {
	assert := assert.New(t)

	q := &quiz.Quiz{
		QuizID: 1,
		Questions: []quiz.Question{
			quiz.BuildQuestion(0, quiz.QuestionInput{
				Text:      "Single correct answer",
				TimeLimit: 10,
				Points:    10,
				AnswerOptions: []quiz.AnswerInput{
					{Text: "Right", Correct: true},
					{Text: "Wrong", Correct: false},
				},
			}, 0),
			quiz.BuildQuestion(1, quiz.QuestionInput{
				Text:      "Another correct answer",
				TimeLimit: 10,
				Points:    10,
				AnswerOptions: []quiz.AnswerInput{
					{Text: "Right", Correct: true},
					{Text: "Wrong", Correct: false},
				},
			}, 0),
		},
	}
	game := quiz.NewGame(0, q, 0)
	a := game.AddPlayer("Alice")
	b := game.AddPlayer("Bob")
	game.AddPlayer("Carol")

	// Alice and Bob tie on 10 each; Carol never answers and still ranks.
	game.RecordSubmission(1, a.PlayerID, []int{0}, 10)
	game.RecordSubmission(2, b.PlayerID, []int{0}, 10)

	game.State = quiz.StateFinalResults
	results, err := quiz.Results(game)
	assert.NoError(err)

	assert.Len(results.UsersRankedByScore, 3)
	assert.Equal(1, results.UsersRankedByScore[0].Rank)
	assert.Equal(1, results.UsersRankedByScore[1].Rank)
	assert.Equal(3, results.UsersRankedByScore[2].Rank)
	assert.Equal("Carol", results.UsersRankedByScore[2].PlayerName)
	assert.Equal(0, results.UsersRankedByScore[2].Score)
}

func TestResultsNoSubmissions(t *testing.T) {
	assert := assert.New(t)
	game, _ := resultsGame(t)

	results, err := quiz.Results(game)
	assert.NoError(err)

	assert.Empty(results.QuestionResults[0].PlayersCorrect)
	assert.Equal(0, results.QuestionResults[0].AverageAnswerTime)
	assert.Equal(0, results.QuestionResults[0].PercentCorrect)
	for _, row := range results.UsersRankedByScore {
		assert.Equal(0, row.Score)
		assert.Equal(1, row.Rank)
	}
}
