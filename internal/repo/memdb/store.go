package memdb

import (
	"cloudport-api/internal/entity"
	"sync"
)

// Store keeps every table in process memory. It backs local runs and the
// service tests; all repos built from one Store share the same data.
type Store struct {
	mu            sync.RWMutex
	jobs          map[string]entity.Job
	applications  map[string]entity.Application
	conversations map[string]entity.Conversation
	messages      map[string][]entity.Message
	contracts     map[string]entity.Contract
}

func NewStore() *Store {
	return &Store{
		jobs:          make(map[string]entity.Job),
		applications:  make(map[string]entity.Application),
		conversations: make(map[string]entity.Conversation),
		messages:      make(map[string][]entity.Message),
		contracts:     make(map[string]entity.Contract),
	}
}

func paginate[T any](items []T, pg *entity.PaginationInput) []T {
	if pg == nil {
		return items
	}
	if pg.Offset >= len(items) {
		return make([]T, 0)
	}
	end := pg.Offset + pg.Limit
	if end > len(items) {
		end = len(items)
	}

	return items[pg.Offset:end]
}

type DiagnosticsRepo struct {
	*Store
}

func NewDiagnosticsRepo(s *Store) *DiagnosticsRepo {
	return &DiagnosticsRepo{s}
}

func (r *DiagnosticsRepo) Ping() error {
	return nil
}
