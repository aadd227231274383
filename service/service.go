package service

import (
	"sync"

	"github.com/emzola/athenaeum/config"
	"github.com/emzola/athenaeum/internal/jsonlog"
	"github.com/emzola/athenaeum/repository"
)

type Service interface {
	books
	sections
	loans
	requests
	students
	feedback
	users
	tokens
	dashboard
	failedValidation(map[string]string) error
}

// Services defines a service layer.
type service struct {
	config config.Config
	wg     *sync.WaitGroup
	logger *jsonlog.Logger
	repo   repository.Repository
}

// New creates a new instance of Service. The wait group is shared with the
// server so that shutdown waits for background goroutines to finish.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
	}
}
