package server

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"

	"quizdeck-server/internal/quiz"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(db, "../../db/migrations"); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return db
}

func testSnapshot() Snapshot {
	game := quiz.NewGame(0, testQuiz(1), 3)
	game.AddPlayer("Alice")

	ended := quiz.NewGame(1, testQuiz(1), 0)
	ended.State = quiz.StateEnd
	ended.IsActive = false

	return Snapshot{
		Users: []User{{
			UserID: 0, Email: "a@example.com",
			NameFirst: "Ada", NameLast: "Lovelace",
			PasswordHash: "$2a$10$fakehashfakehashfakehash", PasswordHistory: []string{},
		}},
		Quizzes:  []quiz.Quiz{*testQuiz(1)},
		Games:    []quiz.Game{*game, *ended},
		Sessions: []AdminSession{{Token: "tok-1", UserID: 0}},
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	assert := assert.New(t)
	pm := NewPersistenceManager(setupTestDB(t))

	assert.NoError(pm.SaveSnapshot(testSnapshot()))

	loaded, err := pm.LoadSnapshot()
	assert.NoError(err)

	assert.Len(loaded.Users, 1)
	assert.Equal("a@example.com", loaded.Users[0].Email)

	assert.Len(loaded.Quizzes, 1)
	assert.Equal("Geography", loaded.Quizzes[0].Name)
	assert.Len(loaded.Quizzes[0].Questions, 2)

	assert.Len(loaded.Games, 2)
	assert.Len(loaded.Sessions, 1)
	assert.Equal("tok-1", loaded.Sessions[0].Token)
}

func TestSaveSnapshotDropsDeletedEntities(t *testing.T) {
	assert := assert.New(t)
	pm := NewPersistenceManager(setupTestDB(t))

	assert.NoError(pm.SaveSnapshot(testSnapshot()))
	assert.NoError(pm.SaveSnapshot(Snapshot{}))

	loaded, err := pm.LoadSnapshot()
	assert.NoError(err)
	assert.Empty(loaded.Users)
	assert.Empty(loaded.Quizzes)
	assert.Empty(loaded.Games)
	assert.Empty(loaded.Sessions)
}

func TestLoadSnapshotRestoresGameState(t *testing.T) {
	assert := assert.New(t)
	pm := NewPersistenceManager(setupTestDB(t))

	assert.NoError(pm.SaveSnapshot(testSnapshot()))
	loaded, err := pm.LoadSnapshot()
	assert.NoError(err)

	gm := NewGameManager(newFakeScheduler())
	gm.Restore(loaded.Games)

	active, inactive := gm.GamesForQuiz(1)
	assert.Equal([]int{0}, active)
	assert.Equal([]int{1}, inactive)

	status, err := gm.Status(0)
	assert.NoError(err)
	assert.Equal(quiz.StateLobby, status.State)
	assert.Len(status.Players, 1)
	assert.Equal("Alice", status.Players[0].PlayerName)
}

func TestLoadSnapshotEmptyDatabase(t *testing.T) {
	assert := assert.New(t)
	pm := NewPersistenceManager(setupTestDB(t))

	loaded, err := pm.LoadSnapshot()
	assert.NoError(err)
	assert.Empty(loaded.Users)
	assert.Empty(loaded.Games)
}
