package services

import (
	"context"
	"log"
	"time"

	"padron-electoral/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CleanupService sweeps expired refresh tokens and blacklist entries on a
// schedule. The blacklist is also purged opportunistically on revocation;
// this job bounds the table size when no one logs out for a while.
type CleanupService struct {
	refreshRepo   repositories.RefreshTokenRepository
	blacklistRepo repositories.BlacklistRepository
	cron          *cron.Cron
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(refreshRepo repositories.RefreshTokenRepository, blacklistRepo repositories.BlacklistRepository) *CleanupService {
	return &CleanupService{
		refreshRepo:   refreshRepo,
		blacklistRepo: blacklistRepo,
		cron:          cron.New(),
	}
}

// Start schedules the hourly sweep
func (s *CleanupService) Start() {
	s.cron.AddFunc("@hourly", s.sweep)
	s.cron.Start()
	log.Println("Cleanup service started (hourly sweep)")
}

// Stop stops the scheduler
func (s *CleanupService) Stop() {
	s.cron.Stop()
}

func (s *CleanupService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshRepo.DeleteExpired(ctx); err != nil {
		log.Printf("cleanup: expired refresh tokens: %v", err)
	}
	if err := s.blacklistRepo.DeleteExpired(ctx); err != nil {
		log.Printf("cleanup: expired blacklist entries: %v", err)
	}
}
