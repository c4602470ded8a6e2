package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"quizdeck-server/internal/quiz"
)

// PersistenceManager saves and loads the service state as JSON blobs, one
// row per entity. Timers are never persisted; a restored game resumes with
// nothing pending.
type PersistenceManager struct {
	db *sql.DB
}

func NewPersistenceManager(db *sql.DB) *PersistenceManager {
	return &PersistenceManager{db: db}
}

// Snapshot is everything the service persists.
type Snapshot struct {
	Users    []User         `json:"users"`
	Quizzes  []quiz.Quiz    `json:"quizzes"`
	Games    []quiz.Game    `json:"games"`
	Sessions []AdminSession `json:"sessions"`
}

// SaveSnapshot replaces the persisted state with the given snapshot in one
// transaction. Rows for entities deleted since the last save disappear with
// the delete-then-insert, which a per-row upsert would miss.
func (pm *PersistenceManager) SaveSnapshot(snapshot Snapshot) error {
	tx, err := pm.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	for _, table := range []string{"users", "quizzes", "games", "admin_sessions"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, user := range snapshot.Users {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to serialize user %d: %w", user.UserID, err)
		}
		_, err = tx.Exec(
			`INSERT OR REPLACE INTO users (user_id, user_data, updated_at) VALUES (?, ?, ?)`,
			user.UserID, string(data), now,
		)
		if err != nil {
			return fmt.Errorf("failed to save user %d: %w", user.UserID, err)
		}
	}

	for _, q := range snapshot.Quizzes {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("failed to serialize quiz %d: %w", q.QuizID, err)
		}
		_, err = tx.Exec(
			`INSERT OR REPLACE INTO quizzes (quiz_id, quiz_data, updated_at) VALUES (?, ?, ?)`,
			q.QuizID, string(data), now,
		)
		if err != nil {
			return fmt.Errorf("failed to save quiz %d: %w", q.QuizID, err)
		}
	}

	for _, game := range snapshot.Games {
		data, err := json.Marshal(game)
		if err != nil {
			return fmt.Errorf("failed to serialize game %d: %w", game.GameID, err)
		}
		_, err = tx.Exec(
			`INSERT OR REPLACE INTO games (game_id, is_active, game_data, updated_at) VALUES (?, ?, ?, ?)`,
			game.GameID, game.IsActive, string(data), now,
		)
		if err != nil {
			return fmt.Errorf("failed to save game %d: %w", game.GameID, err)
		}
	}

	for _, session := range snapshot.Sessions {
		_, err = tx.Exec(
			`INSERT OR REPLACE INTO admin_sessions (token, user_id, created_at) VALUES (?, ?, ?)`,
			session.Token, session.UserID, now,
		)
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save transaction: %w", err)
	}
	return nil
}

// LoadSnapshot reads back the persisted state. Used once on startup.
func (pm *PersistenceManager) LoadSnapshot() (Snapshot, error) {
	snapshot := Snapshot{}

	if err := pm.loadJSONRows("SELECT user_data FROM users", func(data []byte) error {
		var user User
		if err := json.Unmarshal(data, &user); err != nil {
			return err
		}
		snapshot.Users = append(snapshot.Users, user)
		return nil
	}); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load users: %w", err)
	}

	if err := pm.loadJSONRows("SELECT quiz_data FROM quizzes", func(data []byte) error {
		var q quiz.Quiz
		if err := json.Unmarshal(data, &q); err != nil {
			return err
		}
		snapshot.Quizzes = append(snapshot.Quizzes, q)
		return nil
	}); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load quizzes: %w", err)
	}

	if err := pm.loadJSONRows("SELECT game_data FROM games", func(data []byte) error {
		var game quiz.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}
		snapshot.Games = append(snapshot.Games, game)
		return nil
	}); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load games: %w", err)
	}

	rows, err := pm.db.Query(`SELECT token, user_id FROM admin_sessions`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var session AdminSession
		if err := rows.Scan(&session.Token, &session.UserID); err != nil {
			return Snapshot{}, fmt.Errorf("failed to scan session row: %w", err)
		}
		snapshot.Sessions = append(snapshot.Sessions, session)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("error iterating session rows: %w", err)
	}

	return snapshot, nil
}

func (pm *PersistenceManager) loadJSONRows(query string, decode func([]byte) error) error {
	rows, err := pm.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		if err := decode([]byte(data)); err != nil {
			return err
		}
	}
	return rows.Err()
}
