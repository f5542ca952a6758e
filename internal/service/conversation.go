package service

import (
	"cloudport-api/internal/attachment"
	"cloudport-api/internal/auth"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo"
	"cloudport-api/internal/repo/repo_errors"
	"cloudport-api/pkg/logger"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ConversationService struct {
	conversationRepo repo.Conversation
	signer           attachment.Signer
	now              func() time.Time
}

func NewConversationService(repos *repo.Repositories, deps *Dependencies) *ConversationService {
	return &ConversationService{
		conversationRepo: repos.Conversation,
		signer:           deps.Signer,
		now:              deps.Now,
	}
}

func attachmentPrefix(conversationId string) string {
	return "conversations/" + conversationId + "/"
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}

	return name
}

func (s *ConversationService) getForParticipant(ctx context.Context, caller *auth.Principal, conversationId string) (*entity.Conversation, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	conversation, err := s.conversationRepo.GetConversationById(ctx, conversationId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrConversationNotFound
		}

		return nil, err
	}
	if conversation.EngineerId != caller.UserId && conversation.CompanyId != caller.UserId {
		return nil, ErrUserHasNoAccessToChat
	}

	return conversation, nil
}

func (s *ConversationService) GetUserConversations(ctx context.Context, caller *auth.Principal, pg *entity.PaginationInput) ([]entity.ConversationOutputModel, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	conversations, err := s.conversationRepo.GetUserConversations(ctx, caller.UserId, pg)
	if err != nil {
		return nil, err
	}

	return mapConversations(conversations), nil
}

func (s *ConversationService) GetConversation(ctx context.Context, caller *auth.Principal, conversationId string) (*entity.ConversationOutputModel, error) {
	conversation, err := s.getForParticipant(ctx, caller, conversationId)
	if err != nil {
		return nil, err
	}

	return mapConversation(conversation), nil
}

func (s *ConversationService) GetMessages(ctx context.Context, caller *auth.Principal, conversationId string, pg *entity.PaginationInput) ([]entity.MessageOutputModel, error) {
	if _, err := s.getForParticipant(ctx, caller, conversationId); err != nil {
		return nil, err
	}

	messages, err := s.conversationRepo.GetMessages(ctx, conversationId, pg)
	if err != nil {
		return nil, err
	}

	return mapMessages(messages), nil
}

func (s *ConversationService) SendMessage(ctx context.Context, caller *auth.Principal, conversationId string, content string, attachmentKey string) (*entity.MessageOutputModel, error) {
	conversation, err := s.getForParticipant(ctx, caller, conversationId)
	if err != nil {
		return nil, err
	}

	if attachmentKey != "" {
		prefix := attachmentPrefix(conversation.Id)
		if !strings.HasPrefix(attachmentKey, prefix) || len(attachmentKey) == len(prefix) || strings.Contains(attachmentKey, "..") {
			return nil, ErrInvalidAttachmentKey
		}
	}

	message := &entity.Message{
		Id:             uuid.NewString(),
		ConversationId: conversation.Id,
		SenderId:       caller.UserId,
		Content:        content,
		AttachmentKey:  attachmentKey,
		CreatedAt:      s.now(),
	}
	if err := s.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	logger.Debug(ctx, "message sent", "conversation_id", conversation.Id, "message_id", message.Id)

	return mapMessage(message), nil
}

func (s *ConversationService) RequestAttachmentUpload(ctx context.Context, caller *auth.Principal, conversationId string, fileName string, contentType string) (*entity.AttachmentUploadOutputModel, error) {
	conversation, err := s.getForParticipant(ctx, caller, conversationId)
	if err != nil {
		return nil, err
	}
	if s.signer == nil {
		return nil, ErrAttachmentsDisabled
	}

	key := attachmentPrefix(conversation.Id) + uuid.NewString() + "-" + sanitizeFileName(fileName)
	upload, err := s.signer.PresignUpload(ctx, key, contentType)
	if err != nil {
		logger.Error(ctx, "attachment presign failed", "conversation_id", conversation.Id, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
	}

	return &entity.AttachmentUploadOutputModel{
		UploadUrl: upload.URL,
		Key:       upload.Key,
		ExpiresAt: formatTime(upload.ExpiresAt),
	}, nil
}
