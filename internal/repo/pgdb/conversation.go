package pgdb

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"cloudport-api/pkg/postgres"
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
)

var conversationColumns = []string{
	"id", "application_id", "job_id", "engineer_id", "company_id", "last_message_at", "created_at",
}

var messageColumns = []string{
	"id", "conversation_id", "sender_id", "content", "attachment_key", "created_at",
}

type ConversationRepo struct {
	*postgres.Postgres
}

func NewConversationRepo(pgdb *postgres.Postgres) *ConversationRepo {
	return &ConversationRepo{pgdb}
}

func scanConversation(row squirrel.RowScanner) (entity.Conversation, error) {
	var c entity.Conversation
	err := row.Scan(&c.Id, &c.ApplicationId, &c.JobId, &c.EngineerId, &c.CompanyId, &c.LastMessageAt, &c.CreatedAt)

	return c, err
}

func (r *ConversationRepo) GetConversationById(ctx context.Context, id string) (*entity.Conversation, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *ConversationRepo) GetConversationByApplicationId(ctx context.Context, applicationId string) (*entity.Conversation, error) {
	return r.getOne(ctx, squirrel.Eq{"application_id": applicationId})
}

func (r *ConversationRepo) getOne(ctx context.Context, where squirrel.Eq) (*entity.Conversation, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(conversationColumns...).
		From("conversation").
		Where(where).
		ToSql()

	c, err := scanConversation(r.Database.QueryRowContext(ctx, getSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &c, nil
}

func (r *ConversationRepo) GetUserConversations(ctx context.Context, userId string, pg *entity.PaginationInput) ([]entity.Conversation, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(conversationColumns...).
		From("conversation").
		Where(squirrel.Or{squirrel.Eq{"engineer_id": userId}, squirrel.Eq{"company_id": userId}}).
		OrderBy("last_message_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]entity.Conversation, 0)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return conversations, err
		}
		conversations = append(conversations, c)
	}
	if err = rows.Err(); err != nil {
		return conversations, err
	}

	return conversations, nil
}

func (r *ConversationRepo) CreateMessage(ctx context.Context, m *entity.Message) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	createMessageSql, args, _ := r.SqlBuilder.
		Insert("message").
		Columns(messageColumns...).
		Values(m.Id, m.ConversationId, m.SenderId, m.Content, m.AttachmentKey, m.CreatedAt).
		ToSql()

	if _, err = tx.ExecContext(ctx, createMessageSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	touchSql, args, _ := r.SqlBuilder.
		Update("conversation").
		Set("last_message_at", m.CreatedAt).
		Where("id = ?", m.ConversationId).
		ToSql()

	if _, err = tx.ExecContext(ctx, touchSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	return tx.Commit()
}

func (r *ConversationRepo) GetMessages(ctx context.Context, conversationId string, pg *entity.PaginationInput) ([]entity.Message, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(messageColumns...).
		From("message").
		Where("conversation_id = ?", conversationId).
		OrderBy("created_at ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]entity.Message, 0)
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.Id, &m.ConversationId, &m.SenderId, &m.Content, &m.AttachmentKey, &m.CreatedAt); err != nil {
			return messages, err
		}
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		return messages, err
	}

	return messages, nil
}
