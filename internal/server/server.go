package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"quizdeck-server/internal/config"
	"quizdeck-server/internal/database"
	"quizdeck-server/internal/quiz"
)

const saveInterval = 30 * time.Second

type Server struct {
	port              int
	db                database.Service
	connectionManager *ConnectionManager
	gameManager       *GameManager
	quizManager       *QuizManager
	userManager       *UserManager
	sessionStore      SessionStore
	persistence       *PersistenceManager

	stopSave chan struct{}
}

// New builds the service from config: opens the database, applies
// migrations, restores the last snapshot and wires the transition hook
// that feeds websocket observers and quiz bookkeeping.
func New(cfg config.Config) (*Server, *http.Server, error) {
	dbService, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}

	if err := runMigrations(dbService.DB(), cfg.Database.MigrationsDir); err != nil {
		dbService.Close()
		return nil, nil, err
	}

	persistence := NewPersistenceManager(dbService.DB())
	gameManager := NewGameManager(NewTimerScheduler())
	quizManager := NewQuizManager()
	userManager := NewUserManager()
	sessionStore := newSessionStore(cfg)

	s := &Server{
		port:              cfg.Server.Port,
		db:                dbService,
		connectionManager: NewConnectionManager(),
		gameManager:       gameManager,
		quizManager:       quizManager,
		userManager:       userManager,
		sessionStore:      sessionStore,
		persistence:       persistence,
		stopSave:          make(chan struct{}),
	}

	gameManager.SetTransitionHook(func(event GameEvent) {
		if event.State == quiz.StateEnd {
			quizManager.MoveGameToInactive(event.QuizID, event.GameID)
		}
		s.connectionManager.Broadcast(event)
	})

	if err := s.loadPersistedState(); err != nil {
		log.Printf("Warning: Failed to load persisted state: %v", err)
	}

	go s.periodicSaveTask()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s, httpServer, nil
}

// newSessionStore picks the session backend from config.
func newSessionStore(cfg config.Config) SessionStore {
	if !cfg.Redis.Enabled {
		return NewMemorySessionStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Printf("Using Redis session store at %s", cfg.Redis.Addr)
	return NewRedisSessionStore(client, cfg.SessionTTLDuration())
}

// RunMigrations applies the goose migrations from dir.
func runMigrations(db *sql.DB, dir string) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Println("Database migrations applied successfully")
	return nil
}

// loadPersistedState restores users, quizzes, games and sessions from the
// last snapshot. The in-memory session store needs re-seeding; the Redis
// store already holds its tokens.
func (s *Server) loadPersistedState() error {
	snapshot, err := s.persistence.LoadSnapshot()
	if err != nil {
		return err
	}

	s.userManager.Restore(snapshot.Users)
	s.quizManager.Restore(snapshot.Quizzes)
	s.gameManager.Restore(snapshot.Games)

	if memory, ok := s.sessionStore.(*MemorySessionStore); ok {
		for _, session := range snapshot.Sessions {
			if err := memory.Put(context.Background(), session); err != nil {
				return err
			}
		}
	}

	log.Printf("Loaded %d users, %d quizzes, %d games, %d sessions",
		len(snapshot.Users), len(snapshot.Quizzes), len(snapshot.Games), len(snapshot.Sessions))
	return nil
}

// SaveNow writes a full snapshot of the current state.
func (s *Server) SaveNow(ctx context.Context) error {
	sessions, err := s.sessionStore.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect sessions: %w", err)
	}
	return s.persistence.SaveSnapshot(Snapshot{
		Users:    s.userManager.AllUsers(),
		Quizzes:  s.quizManager.AllQuizzes(),
		Games:    s.gameManager.AllGames(),
		Sessions: sessions,
	})
}

// periodicSaveTask snapshots state every 30 seconds until Shutdown.
func (s *Server) periodicSaveTask() {
	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.SaveNow(context.Background()); err != nil {
				log.Printf("Periodic save failed: %v", err)
			}
		case <-s.stopSave:
			return
		}
	}
}

// Shutdown stops the save loop, writes a final snapshot and closes the
// database.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopSave)
	if err := s.SaveNow(ctx); err != nil {
		log.Printf("Final save failed: %v", err)
	}
	return s.db.Close()
}
