package quiz

import (
	"math/rand"
	"regexp"
	"strings"
)

// Colour is the display colour assigned to an answer option. Assignment is
// random at question creation time and stable for the life of the question.
type Colour string

const (
	ColourRed    Colour = "RED"
	ColourBlue   Colour = "BLUE"
	ColourGreen  Colour = "GREEN"
	ColourYellow Colour = "YELLOW"
	ColourPurple Colour = "PURPLE"
	ColourPink   Colour = "PINK"
	ColourOrange Colour = "ORANGE"
)

var colours = []Colour{
	ColourRed, ColourBlue, ColourGreen, ColourYellow,
	ColourPurple, ColourPink, ColourOrange,
}

// RandomColour picks one of the seven answer colours.
func RandomColour() Colour {
	return colours[rand.Intn(len(colours))]
}

// Answer is a single option on a question.
type Answer struct {
	AnswerID int    `json:"answerId"`
	Text     string `json:"answer"`
	Correct  bool   `json:"correct"`
	Colour   Colour `json:"color"`
}

// Question is one timed multiple-choice question owned by a quiz.
type Question struct {
	QuestionID     int      `json:"questionId"`
	Text           string   `json:"question"`
	TimeLimit      int      `json:"timeLimit"`
	ThumbnailURL   string   `json:"thumbnailUrl"`
	Points         int      `json:"points"`
	AnswerOptions  []Answer `json:"answerOptions"`
	TimeCreated    int64    `json:"timeCreated"`
	TimeLastEdited int64    `json:"timeLastEdited"`
}

// Quiz is an authored quiz template. Games snapshot it at launch; later
// edits never reach a running game.
type Quiz struct {
	QuizID          int        `json:"quizId"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	TimeCreated     int64      `json:"timeCreated"`
	TimeLastEdited  int64      `json:"timeLastEdited"`
	CreatedBy       int        `json:"createdBy"`
	Questions       []Question `json:"questions"`
	ThumbnailURL    string     `json:"thumbnailUrl"`
	ActiveGameIDs   []int      `json:"activeGameIds"`
	InactiveGameIDs []int      `json:"inactiveGameIds"`
}

// NumQuestions returns the current question count.
func (q *Quiz) NumQuestions() int {
	return len(q.Questions)
}

// TotalTimeLimit sums the time limits of every question, in seconds.
func (q *Quiz) TotalTimeLimit() int {
	total := 0
	for _, question := range q.Questions {
		total += question.TimeLimit
	}
	return total
}

// NextQuestionID returns max existing question id + 1, or 0 for the first
// question.
func (q *Quiz) NextQuestionID() int {
	if len(q.Questions) == 0 {
		return 0
	}
	maxID := q.Questions[0].QuestionID
	for _, question := range q.Questions[1:] {
		if question.QuestionID > maxID {
			maxID = question.QuestionID
		}
	}
	return maxID + 1
}

// FindQuestion returns the index of the question with the given id, or -1.
func (q *Quiz) FindQuestion(questionID int) int {
	for i, question := range q.Questions {
		if question.QuestionID == questionID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the quiz.
func (q *Quiz) Clone() *Quiz {
	copied := *q
	copied.Questions = cloneQuestions(q.Questions)
	copied.ActiveGameIDs = append([]int(nil), q.ActiveGameIDs...)
	copied.InactiveGameIDs = append([]int(nil), q.InactiveGameIDs...)
	return &copied
}

func cloneQuestions(questions []Question) []Question {
	copied := make([]Question, len(questions))
	for i, question := range questions {
		copied[i] = question
		copied[i].AnswerOptions = append([]Answer(nil), question.AnswerOptions...)
	}
	return copied
}

// ValidName reports whether name contains only letters, digits and spaces.
// Shared by quiz names and player names.
func ValidName(name string) bool {
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9':
		case ch == ' ':
		default:
			return false
		}
	}
	return true
}

var thumbnailPattern = regexp.MustCompile(`(?i)^https?://.+\.(jpe?g|png)$`)

// ValidThumbnailURL checks the http(s) scheme and jpg/jpeg/png suffix rule.
func ValidThumbnailURL(url string) bool {
	return thumbnailPattern.MatchString(url)
}

// QuestionInput is the validated request shape for creating or updating a
// question. Transport layers must parse into this before the core sees it.
type QuestionInput struct {
	Text          string        `json:"question"`
	TimeLimit     int           `json:"timeLimit"`
	Points        int           `json:"points"`
	ThumbnailURL  string        `json:"thumbnailUrl"`
	AnswerOptions []AnswerInput `json:"answerOptions"`
}

// AnswerInput is one proposed answer option.
type AnswerInput struct {
	Text    string `json:"answer"`
	Correct bool   `json:"correct"`
}

// MaxQuizTimeLimit is the combined per-quiz time budget in seconds.
const MaxQuizTimeLimit = 180

// CheckQuestionInput validates a question body against the quiz it would
// join. existingTime is the summed time limit of the quiz's other questions
// (excluding the question being replaced, for updates).
func CheckQuestionInput(input QuestionInput, existingTime int) error {
	if len(input.Text) < 5 || len(input.Text) > 50 {
		return InvalidInputf("question text must be between 5 and 50 characters long")
	}
	if input.TimeLimit <= 0 {
		return InvalidInputf("time limit must be a positive number")
	}
	if input.Points < 1 || input.Points > 10 {
		return InvalidInputf("points must be between 1 and 10")
	}
	if len(input.AnswerOptions) < 2 || len(input.AnswerOptions) > 6 {
		return InvalidInputf("there must be between 2 and 6 answer options")
	}
	seen := make(map[string]bool)
	for _, option := range input.AnswerOptions {
		if len(option.Text) < 1 || len(option.Text) > 30 {
			return InvalidInputf("each answer option must be between 1 and 30 characters long")
		}
		lower := strings.ToLower(option.Text)
		if seen[lower] {
			return InvalidInputf("duplicate answer options are not allowed")
		}
		seen[lower] = true
	}
	hasCorrect := false
	for _, option := range input.AnswerOptions {
		if option.Correct {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return InvalidInputf("at least one answer option must be marked as correct")
	}
	if existingTime+input.TimeLimit > MaxQuizTimeLimit {
		return InvalidInputf("the total time limit for all questions in the quiz exceeds 3 minutes")
	}
	return nil
}

// BuildQuestion materializes a validated input into a Question, assigning
// sequential answer ids and a random colour per option.
func BuildQuestion(questionID int, input QuestionInput, now int64) Question {
	options := make([]Answer, len(input.AnswerOptions))
	for i, option := range input.AnswerOptions {
		options[i] = Answer{
			AnswerID: i,
			Text:     option.Text,
			Correct:  option.Correct,
			Colour:   RandomColour(),
		}
	}
	return Question{
		QuestionID:     questionID,
		Text:           input.Text,
		TimeLimit:      input.TimeLimit,
		ThumbnailURL:   input.ThumbnailURL,
		Points:         input.Points,
		AnswerOptions:  options,
		TimeCreated:    now,
		TimeLastEdited: now,
	}
}
