package service

import (
	"cloudport-api/internal/repo"
	"fmt"
)

type DiagnosticsService struct {
	diagnosticsRepo repo.Diagnostics
}

func NewDiagnosticsService(repos *repo.Repositories) *DiagnosticsService {
	return &DiagnosticsService{repos.Diagnostics}
}

// Ping checks that the configured store answers.
func (s *DiagnosticsService) Ping() error {
	if err := s.diagnosticsRepo.Ping(); err != nil {
		return fmt.Errorf("store ping: %w", err)
	}

	return nil
}
