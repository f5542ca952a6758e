package memdb

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"context"
	"sort"
	"time"
)

type ApplicationRepo struct {
	*Store
}

func NewApplicationRepo(s *Store) *ApplicationRepo {
	return &ApplicationRepo{s}
}

// CreateApplication stores the application together with its conversation.
// Neither is stored when either one already exists.
func (r *ApplicationRepo) CreateApplication(ctx context.Context, application *entity.Application, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.applications {
		if a.JobId == application.JobId && a.EngineerId == application.EngineerId {
			return repo_errors.ErrAlreadyExists
		}
	}
	for _, c := range r.conversations {
		if c.Id == conversation.Id || c.ApplicationId == conversation.ApplicationId {
			return repo_errors.ErrAlreadyExists
		}
	}
	r.applications[application.Id] = *application
	r.conversations[conversation.Id] = *conversation

	return nil
}

func (r *ApplicationRepo) GetApplicationById(ctx context.Context, id string) (*entity.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.applications[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &a, nil
}

func (r *ApplicationRepo) GetApplicationsByJobId(ctx context.Context, jobId string, pg *entity.PaginationInput) ([]entity.Application, error) {
	return r.filter(pg, func(a entity.Application) bool { return a.JobId == jobId }), nil
}

func (r *ApplicationRepo) GetApplicationsByEngineerId(ctx context.Context, engineerId string, pg *entity.PaginationInput) ([]entity.Application, error) {
	return r.filter(pg, func(a entity.Application) bool { return a.EngineerId == engineerId }), nil
}

func (r *ApplicationRepo) UpdateApplicationStatusById(ctx context.Context, id string, newStatus string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.applications[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	a.Status = newStatus
	a.UpdatedAt = updatedAt
	r.applications[id] = a

	return nil
}

func (r *ApplicationRepo) filter(pg *entity.PaginationInput, keep func(entity.Application) bool) []entity.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	applications := make([]entity.Application, 0)
	for _, a := range r.applications {
		if keep(a) {
			applications = append(applications, a)
		}
	}
	sort.Slice(applications, func(i, j int) bool {
		return applications[i].CreatedAt.After(applications[j].CreatedAt)
	})

	return paginate(applications, pg)
}
