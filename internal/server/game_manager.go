package server

import (
	"log"
	"sort"
	"sync"
	"time"

	"quizdeck-server/internal/quiz"
)

const (
	// CountdownDuration is the fixed QUESTION_COUNTDOWN length before a
	// question opens automatically.
	CountdownDuration = 3 * time.Second

	// MaxActiveGamesPerQuiz bounds concurrent live games per quiz.
	MaxActiveGamesPerQuiz = 10

	// MaxAutoStartNumber bounds the auto-start player threshold.
	MaxAutoStartNumber = 50
)

// GameEvent describes one observable change to a game, delivered to the
// transition hook after the manager lock is released.
type GameEvent struct {
	GameID      int            `json:"gameId"`
	QuizID      int            `json:"quizId"`
	State       quiz.GameState `json:"state"`
	AtQuestion  int            `json:"atQuestion"`
	PlayerCount int            `json:"playerCount"`
}

// GameManager owns every game created in the process, split into the
// active and inactive sets. A game belongs to exactly one set at all times
// and moves active -> inactive exactly once, on END. All mutation happens
// under a single lock so each action is one atomic check-then-act turn;
// timer callbacks re-enter through the same lock, which makes a fired
// timer racing a manual action resolve to a harmless no-op.
type GameManager struct {
	mu            sync.Mutex
	activeGames   []*quiz.Game
	inactiveGames []*quiz.Game
	timers        map[int]*ScheduledTask
	scheduler     Scheduler
	now           func() int64
	onTransition  func(GameEvent)
}

func NewGameManager(scheduler Scheduler) *GameManager {
	return &GameManager{
		timers:    make(map[int]*ScheduledTask),
		scheduler: scheduler,
		now:       func() int64 { return time.Now().Unix() },
	}
}

// SetTransitionHook registers the callback invoked after every state
// change. The hook runs outside the manager lock and must not mutate
// games.
func (gm *GameManager) SetTransitionHook(fn func(GameEvent)) {
	gm.onTransition = fn
}

// StartGame snapshots the quiz into a new LOBBY game and registers it in
// the active set. Ownership checks belong to the caller; the structural
// preconditions live here.
func (gm *GameManager) StartGame(q *quiz.Quiz, autoStartNumber int) (int, error) {
	if autoStartNumber > MaxAutoStartNumber {
		return 0, quiz.InvalidInputf("autoStartNum cannot be greater than %d", MaxAutoStartNumber)
	}
	if len(q.Questions) == 0 {
		return 0, quiz.InvalidInputf("quiz contains no questions")
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	active := 0
	for _, game := range gm.activeGames {
		if game.QuizID == q.QuizID {
			active++
		}
	}
	if active >= MaxActiveGamesPerQuiz {
		return 0, quiz.InvalidInputf("too many active games for this quiz")
	}

	game := quiz.NewGame(gm.generateGameIDLocked(), q, autoStartNumber)
	gm.activeGames = append(gm.activeGames, game)
	return game.GameID, nil
}

// generateGameIDLocked returns max existing id + 1 across both sets, or 0
// when no game has ever been created.
func (gm *GameManager) generateGameIDLocked() int {
	maxID := -1
	for _, game := range gm.activeGames {
		if game.GameID > maxID {
			maxID = game.GameID
		}
	}
	for _, game := range gm.inactiveGames {
		if game.GameID > maxID {
			maxID = game.GameID
		}
	}
	return maxID + 1
}

func (gm *GameManager) findGameLocked(gameID int) (*quiz.Game, error) {
	for _, game := range gm.activeGames {
		if game.GameID == gameID {
			return game, nil
		}
	}
	for _, game := range gm.inactiveGames {
		if game.GameID == gameID {
			return game, nil
		}
	}
	return nil, quiz.NotFoundf("gameId does not exist")
}

// DoAction validates the requested transition against the legality table
// and executes its side effects. On an illegal pair the game is left
// untouched and an INVALID_STATE error is returned.
func (gm *GameManager) DoAction(gameID int, action quiz.GameAction) error {
	gm.mu.Lock()
	game, err := gm.findGameLocked(gameID)
	if err != nil {
		gm.mu.Unlock()
		return err
	}
	if !quiz.ValidTransition(game.State, action) {
		gm.mu.Unlock()
		return quiz.InvalidStatef("invalid action for state")
	}
	event := gm.applyTransitionLocked(game, action)
	gm.mu.Unlock()

	gm.emit(event)
	return nil
}

// applyTransitionLocked performs the side effects of a transition already
// judged legal. Every branch cancels the pending timer first so that at
// most one timer is pending per game and stale callbacks never fire into a
// game that has moved on.
func (gm *GameManager) applyTransitionLocked(game *quiz.Game, action quiz.GameAction) GameEvent {
	gameID := game.GameID
	gm.cancelTimerLocked(gameID)

	switch action {
	case quiz.ActionEnd:
		game.State = quiz.StateEnd
		game.IsActive = false
		if err := gm.moveToInactiveLocked(game); err != nil {
			log.Printf("game %d: %v", gameID, err)
		}

	case quiz.ActionNextQuestion:
		game.AtQuestion++
		game.State = quiz.StateQuestionCountdown
		gm.timers[gameID] = gm.scheduler.Schedule(gameID, CountdownDuration, func() {
			gm.autoAdvance(gameID, quiz.ActionSkipCountdown)
		})

	case quiz.ActionSkipCountdown:
		game.State = quiz.StateQuestionOpen
		limit := game.Metadata.Questions[game.AtQuestion-1].TimeLimit
		gm.timers[gameID] = gm.scheduler.Schedule(gameID, time.Duration(limit)*time.Second, func() {
			gm.autoCloseQuestion(gameID)
		})

	case quiz.ActionGoToAnswer:
		game.State = quiz.StateAnswerShow

	case quiz.ActionGoToFinalResults:
		game.State = quiz.StateFinalResults
	}

	return eventFor(game)
}

// autoAdvance is the countdown-expiry callback. A timer that lost the race
// with a manual action finds the transition illegal and becomes a no-op.
func (gm *GameManager) autoAdvance(gameID int, action quiz.GameAction) {
	gm.mu.Lock()
	game, err := gm.findGameLocked(gameID)
	if err != nil || !quiz.ValidTransition(game.State, action) {
		gm.mu.Unlock()
		return
	}
	event := gm.applyTransitionLocked(game, action)
	gm.mu.Unlock()

	gm.emit(event)
}

// autoCloseQuestion is the question-timeout callback. It is not an
// externally invocable action; it fires only while the question is still
// open.
func (gm *GameManager) autoCloseQuestion(gameID int) {
	gm.mu.Lock()
	game, err := gm.findGameLocked(gameID)
	if err != nil || game.State != quiz.StateQuestionOpen {
		gm.mu.Unlock()
		return
	}
	delete(gm.timers, gameID)
	game.State = quiz.StateQuestionClose
	event := eventFor(game)
	gm.mu.Unlock()

	gm.emit(event)
}

func (gm *GameManager) cancelTimerLocked(gameID int) {
	if task, ok := gm.timers[gameID]; ok {
		gm.scheduler.Cancel(task)
		delete(gm.timers, gameID)
	}
}

// moveToInactiveLocked relocates a game from the active to the inactive
// set. Callers never invoke it twice for one game; the error is a
// safeguard, not an expected path.
func (gm *GameManager) moveToInactiveLocked(game *quiz.Game) error {
	for i, candidate := range gm.activeGames {
		if candidate.GameID == game.GameID {
			gm.activeGames = append(gm.activeGames[:i], gm.activeGames[i+1:]...)
			gm.inactiveGames = append(gm.inactiveGames, game)
			game.IsActive = false
			return nil
		}
	}
	return quiz.InvalidStatef("game is already inactive")
}

func eventFor(game *quiz.Game) GameEvent {
	return GameEvent{
		GameID:      game.GameID,
		QuizID:      game.QuizID,
		State:       game.State,
		AtQuestion:  game.AtQuestion,
		PlayerCount: len(game.Players),
	}
}

func (gm *GameManager) emit(event GameEvent) {
	if gm.onTransition != nil {
		gm.onTransition(event)
	}
}

// GameStatus is the admin view of a live game.
type GameStatus struct {
	State      quiz.GameState `json:"state"`
	AtQuestion int            `json:"atQuestion"`
	Players    []quiz.Player  `json:"players"`
	Metadata   quiz.Metadata  `json:"metadata"`
}

// Status returns a copy of the game's current details.
func (gm *GameManager) Status(gameID int) (GameStatus, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	game, err := gm.findGameLocked(gameID)
	if err != nil {
		return GameStatus{}, err
	}
	return GameStatus{
		State:      game.State,
		AtQuestion: game.AtQuestion,
		Players:    append([]quiz.Player(nil), game.Players...),
		Metadata:   game.Metadata,
	}, nil
}

// Results scores a game that has reached FINAL_RESULTS.
func (gm *GameManager) Results(gameID int) (quiz.GameResults, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	game, err := gm.findGameLocked(gameID)
	if err != nil {
		return quiz.GameResults{}, err
	}
	return quiz.Results(game)
}

// GamesForQuiz lists active and inactive game ids for a quiz, ascending.
func (gm *GameManager) GamesForQuiz(quizID int) (active, inactive []int) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	active = []int{}
	inactive = []int{}
	for _, game := range gm.activeGames {
		if game.QuizID == quizID {
			active = append(active, game.GameID)
		}
	}
	for _, game := range gm.inactiveGames {
		if game.QuizID == quizID {
			inactive = append(inactive, game.GameID)
		}
	}
	sort.Ints(active)
	sort.Ints(inactive)
	return active, inactive
}

// QuizHasGame reports whether gameID belongs to the given quiz.
func (gm *GameManager) QuizHasGame(quizID, gameID int) bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	game, err := gm.findGameLocked(gameID)
	return err == nil && game.QuizID == quizID
}

// AllGames returns copies of every game for persistence snapshots.
func (gm *GameManager) AllGames() []quiz.Game {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	games := make([]quiz.Game, 0, len(gm.activeGames)+len(gm.inactiveGames))
	for _, game := range gm.activeGames {
		games = append(games, *game)
	}
	for _, game := range gm.inactiveGames {
		games = append(games, *game)
	}
	return games
}

// Restore reloads persisted games into the correct set. Timers are not
// persisted: a restored game resumes with nothing pending, exactly as if
// its timers had never been scheduled.
func (gm *GameManager) Restore(games []quiz.Game) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for i := range games {
		game := games[i]
		if game.IsActive {
			gm.activeGames = append(gm.activeGames, &game)
		} else {
			gm.inactiveGames = append(gm.inactiveGames, &game)
		}
	}
}

// Clear cancels every pending timer and drops all games. Test support.
func (gm *GameManager) Clear() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for gameID, task := range gm.timers {
		gm.scheduler.Cancel(task)
		delete(gm.timers, gameID)
	}
	gm.activeGames = nil
	gm.inactiveGames = nil
}
