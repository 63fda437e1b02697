package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/lot/dto"
	"github.com/fluxpos/warehouse-service/internal/model"
)

const pgUniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, l *model.Lot) error {
	query := `
        INSERT INTO lots (
            id, tenant_id, product_id, code, manufacture_date, expiry_date,
            quality_status, quality_notes, blocked, block_reason, blocked_at,
            blocked_by, created_by, created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :product_id, :code, :manufacture_date, :expiry_date,
            :quality_status, :quality_notes, :blocked, :block_reason, :blocked_at,
            :blocked_by, :created_by, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return mapDuplicateLotCode(err, l.Code)
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Lot, error) {
	var l model.Lot
	query := `SELECT * FROM lots WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL LIMIT 1`
	err := r.DB.GetContext(ctx, &l, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) FindByCode(ctx context.Context, tenantID, productID, code string) (*model.Lot, error) {
	var l model.Lot
	query := `
        SELECT * FROM lots
        WHERE tenant_id = $1 AND product_id = $2 AND code = $3 AND deleted_at IS NULL
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &l, query, tenantID, productID, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.LotFilters) ([]model.Lot, int, error) {
	var lots []model.Lot
	var count int

	conditions := []string{"tenant_id = :tenant_id", "deleted_at IS NULL"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Blocked != nil {
		conditions = append(conditions, "blocked = :blocked")
		args["blocked"] = *f.Blocked
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM lots" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM lots" + whereClause + " ORDER BY code ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &lots, args)
	return lots, count, err
}

func (r *PGRepository) FindExpiring(ctx context.Context, tenantID string, before time.Time) ([]model.Lot, error) {
	var lots []model.Lot
	query := `
        SELECT * FROM lots
        WHERE tenant_id = $1 AND expiry_date IS NOT NULL AND expiry_date <= $2 AND deleted_at IS NULL
        ORDER BY expiry_date ASC
    `
	err := r.DB.SelectContext(ctx, &lots, query, tenantID, before)
	return lots, err
}

func (r *PGRepository) Update(ctx context.Context, l *model.Lot) error {
	query := `
        UPDATE lots
        SET code = :code,
            manufacture_date = :manufacture_date,
            expiry_date = :expiry_date,
            quality_status = :quality_status,
            quality_notes = :quality_notes,
            blocked = :blocked,
            block_reason = :block_reason,
            blocked_at = :blocked_at,
            blocked_by = :blocked_by,
            updated_at = :updated_at
        WHERE id = :id AND tenant_id = :tenant_id AND deleted_at IS NULL
    `
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return mapDuplicateLotCode(err, l.Code)
}

func (r *PGRepository) DeleteGuarded(ctx context.Context, tenantID, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Lock the lot row so concurrent stock writes referencing it serialize
	// against the delete.
	var lotID string
	err = tx.GetContext(ctx, &lotID,
		`SELECT id FROM lots WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL FOR UPDATE`,
		tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("lot", id)
		}
		return err
	}

	var stockRefs int
	err = tx.GetContext(ctx, &stockRefs,
		`SELECT count(*) FROM stock_entries
         WHERE tenant_id = $1 AND lot_id = $2 AND (quantity_on_hand > 0 OR quantity_reserved > 0)`,
		tenantID, id)
	if err != nil {
		return err
	}
	if stockRefs > 0 {
		return apperr.Conflict(apperr.CodeLotInUse, "lot %q still has stock on hand", id)
	}

	var serialRefs int
	err = tx.GetContext(ctx, &serialRefs,
		`SELECT count(*) FROM serials WHERE tenant_id = $1 AND lot_id = $2 AND status <> $3`,
		tenantID, id, model.SerialScrapped)
	if err != nil {
		return err
	}
	if serialRefs > 0 {
		return apperr.Conflict(apperr.CodeLotInUse, "lot %q is referenced by active serials", id)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE lots SET deleted_at = now(), updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func mapDuplicateLotCode(err error, code string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Conflict(apperr.CodeDuplicateLotCode, "lot code %q already exists for this product", code)
	}
	return err
}
