package server

import (
	"sort"
	"sync"
	"time"

	"quizdeck-server/internal/quiz"
)

// QuizSummary is one row of a quiz listing.
type QuizSummary struct {
	QuizID int    `json:"quizId"`
	Name   string `json:"name"`
}

// QuizManager owns every authored quiz. Games never read through it after
// launch; they play from their own snapshot.
type QuizManager struct {
	mu      sync.Mutex
	quizzes []*quiz.Quiz
	now     func() int64
}

func NewQuizManager() *QuizManager {
	return &QuizManager{now: func() int64 { return time.Now().Unix() }}
}

func checkQuizName(name string) error {
	if !quiz.ValidName(name) {
		return quiz.InvalidInputf("name contains invalid characters")
	}
	if len(name) < 3 || len(name) > 30 {
		return quiz.InvalidInputf("name must be between 3 and 30 characters long")
	}
	return nil
}

func (qm *QuizManager) nameTakenLocked(ownerID int, name string, excludeQuizID int) bool {
	for _, q := range qm.quizzes {
		if q.CreatedBy == ownerID && q.Name == name && q.QuizID != excludeQuizID {
			return true
		}
	}
	return false
}

func (qm *QuizManager) generateQuizIDLocked() int {
	maxID := -1
	for _, q := range qm.quizzes {
		if q.QuizID > maxID {
			maxID = q.QuizID
		}
	}
	return maxID + 1
}

// findQuizLocked resolves a quiz and enforces ownership. A quiz that exists
// but belongs to someone else reads as UNAUTHORIZED, not NOT_FOUND.
func (qm *QuizManager) findQuizLocked(ownerID, quizID int) (*quiz.Quiz, error) {
	for _, q := range qm.quizzes {
		if q.QuizID == quizID {
			if q.CreatedBy != ownerID {
				return nil, quiz.Unauthorizedf("quiz does not belong to this user")
			}
			return q, nil
		}
	}
	return nil, quiz.NotFoundf("quizId does not exist")
}

// Create registers a new empty quiz for the owner.
func (qm *QuizManager) Create(ownerID int, name, description string) (int, error) {
	if err := checkQuizName(name); err != nil {
		return 0, err
	}
	if len(description) > 100 {
		return 0, quiz.InvalidInputf("description must be 100 characters or fewer")
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.nameTakenLocked(ownerID, name, -1) {
		return 0, quiz.Conflictf("name is already used for another quiz")
	}

	now := qm.now()
	q := &quiz.Quiz{
		QuizID:          qm.generateQuizIDLocked(),
		Name:            name,
		Description:     description,
		TimeCreated:     now,
		TimeLastEdited:  now,
		CreatedBy:       ownerID,
		Questions:       []quiz.Question{},
		ActiveGameIDs:   []int{},
		InactiveGameIDs: []int{},
	}
	qm.quizzes = append(qm.quizzes, q)
	return q.QuizID, nil
}

// List returns the owner's quizzes sorted by quizId ascending.
func (qm *QuizManager) List(ownerID int) []QuizSummary {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	summaries := []QuizSummary{}
	for _, q := range qm.quizzes {
		if q.CreatedBy == ownerID {
			summaries = append(summaries, QuizSummary{QuizID: q.QuizID, Name: q.Name})
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].QuizID < summaries[j].QuizID
	})
	return summaries
}

// Info returns a deep copy of the quiz so callers cannot mutate past the
// manager's lock.
func (qm *QuizManager) Info(ownerID, quizID int) (*quiz.Quiz, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	q, err := qm.findQuizLocked(ownerID, quizID)
	if err != nil {
		return nil, err
	}
	return q.Clone(), nil
}

// UpdateName renames a quiz, keeping per-owner uniqueness.
func (qm *QuizManager) UpdateName(ownerID, quizID int, name string) error {
	if err := checkQuizName(name); err != nil {
		return err
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	q, err := qm.findQuizLocked(ownerID, quizID)
	if err != nil {
		return err
	}
	if qm.nameTakenLocked(ownerID, name, quizID) {
		return quiz.Conflictf("name is already used for another quiz")
	}
	q.Name = name
	q.TimeLastEdited = qm.now()
	return nil
}

func (qm *QuizManager) UpdateDescription(ownerID, quizID int, description string) error {
	if len(description) > 100 {
		return quiz.InvalidInputf("description must be 100 characters or fewer")
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	q, err := qm.findQuizLocked(ownerID, quizID)
	if err != nil {
		return err
	}
	q.Description = description
	q.TimeLastEdited = qm.now()
	return nil
}

// UpdateThumbnail sets the quiz thumbnail. The URL must be http(s) and end
// in jpg, jpeg or png.
func (qm *QuizManager) UpdateThumbnail(ownerID, quizID int, url string) error {
	if !quiz.ValidThumbnailURL(url) {
		return quiz.InvalidInputf("thumbnail url must be an http(s) jpg, jpeg or png")
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	q, err := qm.findQuizLocked(ownerID, quizID)
	if err != nil {
		return err
	}
	q.ThumbnailURL = url
	q.TimeLastEdited = qm.now()
	return nil
}

// Remove deletes a quiz outright. The caller is responsible for refusing
// removal while the quiz still has a live game.
func (qm *QuizManager) Remove(ownerID, quizID int) error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if _, err := qm.findQuizLocked(ownerID, quizID); err != nil {
		return err
	}
	for i, q := range qm.quizzes {
		if q.QuizID == quizID {
			qm.quizzes = append(qm.quizzes[:i], qm.quizzes[i+1:]...)
			break
		}
	}
	return nil
}

// Transfer hands a quiz to another user. The recipient must not already
// own a quiz with the same name, and transferring to yourself is refused.
func (qm *QuizManager) Transfer(ownerID, quizID, newOwnerID int) error {
	if ownerID == newOwnerID {
		return quiz.InvalidInputf("quiz cannot be transferred to its current owner")
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	q, err := qm.findQuizLocked(ownerID, quizID)
	if err != nil {
		return err
	}
	if qm.nameTakenLocked(newOwnerID, q.Name, quizID) {
		return quiz.Conflictf("target user already owns a quiz with this name")
	}
	q.CreatedBy = newOwnerID
	return nil
}

// QuestionCreate validates and appends a question, assigning the next id.
func (qm *QuizManager) QuestionCreate(ownerID, quizID int, input quiz.QuestionInput) (int, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	q, err := qm.findQuizLocked(ownerID, quizID)
	if err != nil {
		return 0, err
	}
	if err := quiz.CheckQuestionInput(input, q.TotalTimeLimit()); err != nil {
		return 0, err
	}
	now := qm.now()
	question := quiz.BuildQuestion(q.NextQuestionID(), input, now)
	q.Questions = append(q.Questions, question)
	q.TimeLastEdited = now
	return question.QuestionID, nil
}

// QuestionUpdate replaces a question's body in place. The question keeps
// its id and position; answer ids and colours are reassigned.
func (qm *QuizManager) QuestionUpdate(ownerID, quizID, questionID int, input quiz.QuestionInput) error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	q, err := qm.findQuizLocked(ownerID, quizID)
	if err != nil {
		return err
	}
	idx := q.FindQuestion(questionID)
	if idx < 0 {
		return quiz.NotFoundf("questionId does not exist in this quiz")
	}
	if err := quiz.CheckQuestionInput(input, q.TotalTimeLimit()-q.Questions[idx].TimeLimit); err != nil {
		return err
	}
	now := qm.now()
	replacement := quiz.BuildQuestion(questionID, input, now)
	replacement.TimeCreated = q.Questions[idx].TimeCreated
	q.Questions[idx] = replacement
	q.TimeLastEdited = now
	return nil
}

func (qm *QuizManager) QuestionDelete(ownerID, quizID, questionID int) error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	q, err := qm.findQuizLocked(ownerID, quizID)
	if err != nil {
		return err
	}
	idx := q.FindQuestion(questionID)
	if idx < 0 {
		return quiz.NotFoundf("questionId does not exist in this quiz")
	}
	q.Questions = append(q.Questions[:idx], q.Questions[idx+1:]...)
	q.TimeLastEdited = qm.now()
	return nil
}

// QuestionMove repositions a question to a 0-based index.
func (qm *QuizManager) QuestionMove(ownerID, quizID, questionID, newPosition int) error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	q, err := qm.findQuizLocked(ownerID, quizID)
	if err != nil {
		return err
	}
	idx := q.FindQuestion(questionID)
	if idx < 0 {
		return quiz.NotFoundf("questionId does not exist in this quiz")
	}
	if newPosition < 0 || newPosition >= len(q.Questions) {
		return quiz.InvalidInputf("new position is out of range")
	}
	if newPosition == idx {
		return quiz.InvalidInputf("question is already at this position")
	}

	question := q.Questions[idx]
	q.Questions = append(q.Questions[:idx], q.Questions[idx+1:]...)
	q.Questions = append(q.Questions[:newPosition],
		append([]quiz.Question{question}, q.Questions[newPosition:]...)...)
	q.TimeLastEdited = qm.now()
	return nil
}

// AttachGameID records a freshly launched game on its quiz.
func (qm *QuizManager) AttachGameID(quizID, gameID int) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	for _, q := range qm.quizzes {
		if q.QuizID == quizID {
			q.ActiveGameIDs = append(q.ActiveGameIDs, gameID)
			return
		}
	}
}

// MoveGameToInactive mirrors a game's END transition on its quiz. The quiz
// may have been deleted in the meantime; that is not an error.
func (qm *QuizManager) MoveGameToInactive(quizID, gameID int) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	for _, q := range qm.quizzes {
		if q.QuizID != quizID {
			continue
		}
		for i, id := range q.ActiveGameIDs {
			if id == gameID {
				q.ActiveGameIDs = append(q.ActiveGameIDs[:i], q.ActiveGameIDs[i+1:]...)
				q.InactiveGameIDs = append(q.InactiveGameIDs, gameID)
				return
			}
		}
		return
	}
}

// HasActiveGames reports whether any game launched from the quiz is still
// live according to the quiz's own bookkeeping.
func (qm *QuizManager) HasActiveGames(quizID int) bool {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	for _, q := range qm.quizzes {
		if q.QuizID == quizID {
			return len(q.ActiveGameIDs) > 0
		}
	}
	return false
}

// AllQuizzes returns deep copies of every quiz for persistence snapshots.
func (qm *QuizManager) AllQuizzes() []quiz.Quiz {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	quizzes := make([]quiz.Quiz, 0, len(qm.quizzes))
	for _, q := range qm.quizzes {
		quizzes = append(quizzes, *q.Clone())
	}
	return quizzes
}

// Restore reloads persisted quizzes.
func (qm *QuizManager) Restore(quizzes []quiz.Quiz) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	for i := range quizzes {
		q := quizzes[i]
		qm.quizzes = append(qm.quizzes, &q)
	}
}

// Clear drops every quiz. Test support.
func (qm *QuizManager) Clear() {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	qm.quizzes = nil
}
