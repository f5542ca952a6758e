package memdb

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"context"
	"sort"
)

type ConversationRepo struct {
	*Store
}

func NewConversationRepo(s *Store) *ConversationRepo {
	return &ConversationRepo{s}
}

func (r *ConversationRepo) GetConversationById(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conversations[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &c, nil
}

func (r *ConversationRepo) GetConversationByApplicationId(ctx context.Context, applicationId string) (*entity.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.conversations {
		if c.ApplicationId == applicationId {
			return &c, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (r *ConversationRepo) GetUserConversations(ctx context.Context, userId string, pg *entity.PaginationInput) ([]entity.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conversations := make([]entity.Conversation, 0)
	for _, c := range r.conversations {
		if c.EngineerId == userId || c.CompanyId == userId {
			conversations = append(conversations, c)
		}
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})

	return paginate(conversations, pg), nil
}

func (r *ConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[message.ConversationId]
	if !ok {
		return repo_errors.ErrNotFound
	}
	c.LastMessageAt = message.CreatedAt
	r.conversations[c.Id] = c
	r.messages[c.Id] = append(r.messages[c.Id], *message)

	return nil
}

// oldest first
func (r *ConversationRepo) GetMessages(ctx context.Context, conversationId string, pg *entity.PaginationInput) ([]entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := make([]entity.Message, len(r.messages[conversationId]))
	copy(messages, r.messages[conversationId])
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return paginate(messages, pg), nil
}
