package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-origination/internal/domain/credit"
	"credit-origination/internal/infrastructure/monitoring"
	"credit-origination/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

type CreditRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var _ credit.Repository = (*CreditRepository)(nil)

var errMsgFormat = "%w: %w"

func NewCreditRepository(db DBPool, logger *slog.Logger) *CreditRepository {
	return &CreditRepository{db: db, logger: logger.With("component", "CreditRepository")}
}

const creditColumns = `id, credit_code, credit_value, first_installment_date, number_of_installments, status, customer_id, created_at, updated_at`

func (r *CreditRepository) scanCredit(row pgx.Row) (*credit.Credit, error) {
	var c credit.Credit
	err := row.Scan(
		&c.ID,
		&c.CreditCode,
		&c.CreditValue,
		&c.FirstInstallmentDate,
		&c.NumberOfInstallments,
		&c.Status,
		&c.CustomerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CreditRepository) Create(ctx context.Context, cred *credit.Credit) (*credit.Credit, error) {
	if cred == nil {
		return nil, fmt.Errorf("%w: credit cannot be nil", apperrors.ErrInvalidArgument)
	}

	logCtx := r.logger.With(slog.Int64("customerID", cred.CustomerID))
	logCtx.InfoContext(ctx, "Attempting to insert new credit", slog.String("creditCode", cred.CreditCode.String()))

	query := `
        INSERT INTO credits (credit_code, credit_value, first_installment_date, number_of_installments, status, customer_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		cred.CreditCode,
		cred.CreditValue,
		cred.FirstInstallmentDate,
		cred.NumberOfInstallments,
		cred.Status,
		cred.CustomerID,
	).Scan(
		&cred.ID,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	monitoring.RecordDBQuery("credit_insert", dbQueryStatus(err), time.Since(start))

	if err != nil {
		translatedErr := translateDBError(err, logCtx)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Credit code collision on insert")
			return nil, translatedErr
		}
		logCtx.ErrorContext(ctx, "Failed to insert credit", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to insert credit: %w", apperrors.ErrDatabase, err)
	}

	logCtx.InfoContext(ctx, "Credit inserted successfully", slog.Int64("creditID", cred.ID))
	return cred, nil
}

func (r *CreditRepository) FindByCreditCode(ctx context.Context, creditCode uuid.UUID) (*credit.Credit, error) {
	r.logger.InfoContext(ctx, "Attempting to find credit by code")

	query := `SELECT ` + creditColumns + ` FROM credits WHERE credit_code = $1`

	start := time.Now()
	cred, err := r.scanCredit(r.db.QueryRow(ctx, query, creditCode))
	monitoring.RecordDBQuery("credit_find_by_code", dbQueryStatus(err), time.Since(start))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Credit not found for the given code")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan credit by code", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get credit by code: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Credit found successfully by code", slog.Int64("creditID", cred.ID))
	return cred, nil
}

func (r *CreditRepository) FindAllByCustomerID(ctx context.Context, customerID int64) ([]*credit.Credit, error) {
	r.logger.InfoContext(ctx, "Attempting to find credits by customer ID", slog.Int64("customerID", customerID))

	query := `SELECT ` + creditColumns + ` FROM credits WHERE customer_id = $1 ORDER BY id ASC`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, customerID)
	monitoring.RecordDBQuery("credit_find_by_customer", dbQueryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query credits", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query credits: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	credits := make([]*credit.Credit, 0)
	for rows.Next() {
		cred, err := r.scanCredit(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan credit row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan credit row: %w", apperrors.ErrDatabase, err)
		}
		credits = append(credits, cred)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating credit rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating credit rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished finding credits", slog.Int("count", len(credits)))
	return credits, nil
}

func (r *CreditRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	r.logger.InfoContext(ctx, "Attempting to mark stale credit requests as rejected")

	query := `
        UPDATE credits
        SET status = $1, updated_at = NOW()
        WHERE status = $2 AND first_installment_date < $3`

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, query, credit.StatusRejected, credit.StatusInProgress, now)
	monitoring.RecordDBQuery("credit_mark_expired", dbQueryStatus(err), time.Since(start))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark stale credits", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to mark stale credits: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Stale credit requests marked", slog.Int64("count", cmdTag.RowsAffected()))
	return cmdTag.RowsAffected(), nil
}

func dbQueryStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {

		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}

		if pgErr.Code == "23503" {
			contextLogger.Warn("Database foreign key violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrNotFound, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
