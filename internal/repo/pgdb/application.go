package pgdb

import (
	"cloudport-api/internal/entity"
	"cloudport-api/internal/repo/repo_errors"
	"cloudport-api/pkg/postgres"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
)

var applicationColumns = []string{
	"id", "job_id", "engineer_id", "company_id", "message", "status", "created_at", "updated_at",
}

type ApplicationRepo struct {
	*postgres.Postgres
}

func NewApplicationRepo(pgdb *postgres.Postgres) *ApplicationRepo {
	return &ApplicationRepo{pgdb}
}

func scanApplication(row squirrel.RowScanner) (entity.Application, error) {
	var a entity.Application
	err := row.Scan(&a.Id, &a.JobId, &a.EngineerId, &a.CompanyId, &a.Message, &a.Status, &a.CreatedAt, &a.UpdatedAt)

	return a, err
}

// CreateApplication inserts the application and its conversation in one
// transaction.
func (r *ApplicationRepo) CreateApplication(ctx context.Context, a *entity.Application, c *entity.Conversation) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	createApplicationSql, args, _ := r.SqlBuilder.
		Insert("application").
		Columns(applicationColumns...).
		Values(a.Id, a.JobId, a.EngineerId, a.CompanyId, a.Message, a.Status, a.CreatedAt, a.UpdatedAt).
		ToSql()

	if _, err = tx.ExecContext(ctx, createApplicationSql, args...); err != nil {
		return rollback(tx, err)
	}

	createConversationSql, args, _ := r.SqlBuilder.
		Insert("conversation").
		Columns(conversationColumns...).
		Values(c.Id, c.ApplicationId, c.JobId, c.EngineerId, c.CompanyId, c.LastMessageAt, c.CreatedAt).
		ToSql()

	if _, err = tx.ExecContext(ctx, createConversationSql, args...); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

func (r *ApplicationRepo) GetApplicationById(ctx context.Context, id string) (*entity.Application, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(applicationColumns...).
		From("application").
		Where("id = ?", id).
		ToSql()

	a, err := scanApplication(r.Database.QueryRowContext(ctx, getSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &a, nil
}

func (r *ApplicationRepo) GetApplicationsByJobId(ctx context.Context, jobId string, pg *entity.PaginationInput) ([]entity.Application, error) {
	return r.list(ctx, squirrel.Eq{"job_id": jobId}, pg)
}

func (r *ApplicationRepo) GetApplicationsByEngineerId(ctx context.Context, engineerId string, pg *entity.PaginationInput) ([]entity.Application, error) {
	return r.list(ctx, squirrel.Eq{"engineer_id": engineerId}, pg)
}

func (r *ApplicationRepo) UpdateApplicationStatusById(ctx context.Context, id string, newStatus string, updatedAt time.Time) error {
	updateSql, args, _ := r.SqlBuilder.
		Update("application").
		Set("status", newStatus).
		Set("updated_at", updatedAt).
		Where("id = ?", id).
		ToSql()

	res, err := r.Database.ExecContext(ctx, updateSql, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *ApplicationRepo) list(ctx context.Context, where squirrel.Eq, pg *entity.PaginationInput) ([]entity.Application, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(applicationColumns...).
		From("application").
		Where(where).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := make([]entity.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return applications, err
		}
		applications = append(applications, a)
	}
	if err = rows.Err(); err != nil {
		return applications, err
	}

	return applications, nil
}
