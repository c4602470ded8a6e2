package quiz

import (
	"math"
	"sort"
)

// PlayerScore is one row of the final ranking.
type PlayerScore struct {
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	Rank       int    `json:"rank"`
}

// QuestionResult carries the per-question statistics of a finished game.
type QuestionResult struct {
	QuestionID        int      `json:"questionId"`
	PlayersCorrect    []string `json:"playersCorrect"`
	AverageAnswerTime int      `json:"averageAnswerTime"`
	PercentCorrect    int      `json:"percentCorrect"`
}

// GameResults is the scored outcome of a game that reached FINAL_RESULTS.
type GameResults struct {
	UsersRankedByScore []PlayerScore    `json:"usersRankedByScore"`
	QuestionResults    []QuestionResult `json:"questionResults"`
}

// Results scores a finished game from its frozen metadata and the
// submissions recorded while questions were open.
//
// A submission is correct iff its answer-id set exactly equals the set of
// options flagged correct; there is no partial credit. Correct submissions
// are ordered by submission time and the i-th earns round(points/(i+1)).
func Results(game *Game) (GameResults, error) {
	if game.State != StateFinalResults {
		return GameResults{}, InvalidStatef("game is not in FINAL_RESULTS state")
	}

	scores := make(map[int]int, len(game.Players))
	questionResults := make([]QuestionResult, 0, len(game.Metadata.Questions))

	for _, question := range game.Metadata.Questions {
		correct := correctSubmissions(question)
		sort.SliceStable(correct, func(i, j int) bool {
			return correct[i].TimeSubmitted < correct[j].TimeSubmitted
		})

		names := make([]string, 0, len(correct))
		timeSum := int64(0)
		for i, submission := range correct {
			points := math.Round(float64(question.Points) / float64(i+1))
			scores[submission.PlayerID] += int(points)
			timeSum += submission.TimeSubmitted
			if player := game.FindPlayer(submission.PlayerID); player != nil {
				names = append(names, player.PlayerName)
			}
		}

		averageTime := 0
		if len(correct) > 0 {
			averageTime = int(math.Round(float64(timeSum) / float64(len(correct))))
		}
		percentCorrect := 0
		if len(game.Players) > 0 {
			percentCorrect = int(math.Round(100 * float64(len(correct)) / float64(len(game.Players))))
		}

		questionResults = append(questionResults, QuestionResult{
			QuestionID:        question.QuestionID,
			PlayersCorrect:    names,
			AverageAnswerTime: averageTime,
			PercentCorrect:    percentCorrect,
		})
	}

	ranked := make([]PlayerScore, len(game.Players))
	for i, player := range game.Players {
		ranked[i] = PlayerScore{PlayerName: player.PlayerName, Score: scores[player.PlayerID]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	// Competition ranking: ties share a rank, the next distinct score
	// skips past them ([50, 50, 30] -> 1, 1, 3).
	for i := range ranked {
		if i > 0 && ranked[i].Score == ranked[i-1].Score {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}

	return GameResults{
		UsersRankedByScore: ranked,
		QuestionResults:    questionResults,
	}, nil
}

func correctSubmissions(question GameQuestion) []Submission {
	wanted := make([]int, 0, len(question.AnswerOptions))
	for _, option := range question.AnswerOptions {
		if option.Correct {
			wanted = append(wanted, option.AnswerID)
		}
	}
	sort.Ints(wanted)

	matches := make([]Submission, 0, len(question.Submissions))
	for _, submission := range question.Submissions {
		got := append([]int(nil), submission.AnswerIDs...)
		sort.Ints(got)
		if equalIntSlices(got, wanted) {
			matches = append(matches, submission)
		}
	}
	return matches
}

func equalIntSlices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
