package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/alnotes/alnotes/internal/config"
	"github.com/alnotes/alnotes/internal/db"
	"github.com/alnotes/alnotes/internal/repository"
	"github.com/alnotes/alnotes/internal/service"
	"github.com/alnotes/alnotes/internal/storage"
)

type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	AuthService *service.AuthService
	NoteService *service.NoteService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	noteRepository := repository.NewNoteRepository(database)

	// Storage backend (s3 or drive, selected by config)
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	authService := service.NewAuthService(cfg.JWTSecret, cfg.IsProduction(), cfg.JWTExpiry)
	noteService := service.NewNoteService(noteRepository, blobStorage, cfg.SearchMaxResults)

	return &App{
		Cfg:         cfg,
		DB:          database,
		AuthService: authService,
		NoteService: noteService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
