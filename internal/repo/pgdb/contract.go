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

var contractColumns = []string{
	"id", "application_id", "job_id", "engineer_id", "company_id", "status", "initiated_by",
	"contract_amount", "fee_percentage", "fee_amount", "approved_by_engineer", "approved_by_company",
	"payment_id", "payment_method", "paid_at", "refunded_at", "version", "created_at", "updated_at",
}

type ContractRepo struct {
	*postgres.Postgres
}

func NewContractRepo(pgdb *postgres.Postgres) *ContractRepo {
	return &ContractRepo{pgdb}
}

func scanContract(row squirrel.RowScanner) (entity.Contract, error) {
	var c entity.Contract
	err := row.Scan(&c.Id, &c.ApplicationId, &c.JobId, &c.EngineerId, &c.CompanyId, &c.Status, &c.InitiatedBy,
		&c.ContractAmount, &c.FeePercentage, &c.FeeAmount, &c.ApprovedByEngineer, &c.ApprovedByCompany,
		&c.PaymentId, &c.PaymentMethod, &c.PaidAt, &c.RefundedAt, &c.Version, &c.CreatedAt, &c.UpdatedAt)

	return c, err
}

func (r *ContractRepo) CreateContract(ctx context.Context, c *entity.Contract) error {
	createSql, args, _ := r.SqlBuilder.
		Insert("contract").
		Columns(contractColumns...).
		Values(c.Id, c.ApplicationId, c.JobId, c.EngineerId, c.CompanyId, c.Status, c.InitiatedBy,
			c.ContractAmount, c.FeePercentage, c.FeeAmount, c.ApprovedByEngineer, c.ApprovedByCompany,
			c.PaymentId, c.PaymentMethod, c.PaidAt, c.RefundedAt, c.Version, c.CreatedAt, c.UpdatedAt).
		ToSql()

	_, err := r.Database.ExecContext(ctx, createSql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repo_errors.ErrAlreadyExists
		}

		return err
	}

	return nil
}

func (r *ContractRepo) GetContractById(ctx context.Context, id string) (*entity.Contract, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(contractColumns...).
		From("contract").
		Where("id = ?", id).
		ToSql()

	c, err := scanContract(r.Database.QueryRowContext(ctx, getSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &c, nil
}

func (r *ContractRepo) GetUserContracts(ctx context.Context, userId string, filter entity.ContractFilter, pg *entity.PaginationInput) ([]entity.Contract, error) {
	builder := r.SqlBuilder.
		Select(contractColumns...).
		From("contract").
		Where(squirrel.Or{squirrel.Eq{"engineer_id": userId}, squirrel.Eq{"company_id": userId}})

	if filter.Status != "" {
		builder = builder.Where("status = ?", filter.Status)
	}
	if filter.ApplicationId != "" {
		builder = builder.Where("application_id = ?", filter.ApplicationId)
	}

	sqlReq, args, _ := builder.
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contracts := make([]entity.Contract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return contracts, err
		}
		contracts = append(contracts, c)
	}
	if err = rows.Err(); err != nil {
		return contracts, err
	}

	return contracts, nil
}

func (r *ContractRepo) UpdateContract(ctx context.Context, c *entity.Contract, expectedVersion int) error {
	updateSql, args, _ := r.SqlBuilder.
		Update("contract").
		Set("status", c.Status).
		Set("approved_by_engineer", c.ApprovedByEngineer).
		Set("approved_by_company", c.ApprovedByCompany).
		Set("payment_id", c.PaymentId).
		Set("payment_method", c.PaymentMethod).
		Set("paid_at", c.PaidAt).
		Set("refunded_at", c.RefundedAt).
		Set("updated_at", c.UpdatedAt).
		Set("version", squirrel.Expr("version + ?", 1)).
		Where("id = ?", c.Id).
		Where("version = ?", expectedVersion).
		Suffix("RETURNING version").
		ToSql()

	var version int
	err := r.Database.QueryRowContext(ctx, updateSql, args...).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrVersionConflict
		}

		return err
	}
	c.Version = version

	return nil
}
