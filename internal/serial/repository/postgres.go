package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/serial/dto"
)

const pgUniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Serial) error {
	query := `
        INSERT INTO serials (
            id, tenant_id, product_id, lot_id, location_id, serial_code,
            status, notes, created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :product_id, :lot_id, :location_id, :serial_code,
            :status, :notes, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.Conflict(apperr.CodeDuplicateSerialCode, "serial code %q already exists for this product", s.SerialCode)
		}
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Serial, error) {
	var s model.Serial
	query := `SELECT * FROM serials WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindByCode(ctx context.Context, tenantID, productID, serialCode string) (*model.Serial, error) {
	var s model.Serial
	query := `
        SELECT * FROM serials
        WHERE tenant_id = $1 AND product_id = $2 AND serial_code = $3
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &s, query, tenantID, productID, serialCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.SerialFilters) ([]model.Serial, int, error) {
	var serials []model.Serial
	var count int

	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LotID != "" {
		conditions = append(conditions, "lot_id = :lot_id")
		args["lot_id"] = f.LotID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.SearchTerm != "" {
		conditions = append(conditions, "(serial_code ILIKE :search OR notes ILIKE :search)")
		args["search"] = "%" + f.SearchTerm + "%"
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM serials" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM serials" + whereClause + " ORDER BY serial_code ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &serials, args)
	return serials, count, err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, tenantID, id string, next model.SerialStatus, notes *string) (*model.Serial, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var s model.Serial
	err = tx.GetContext(ctx, &s,
		`SELECT * FROM serials WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("serial", id)
		}
		return nil, err
	}

	// The block flag is read under a share lock so a concurrent BlockLot
	// commits strictly before or after this transition, never in between.
	if s.LotID != nil {
		var blocked bool
		err = tx.GetContext(ctx, &blocked,
			`SELECT blocked FROM lots WHERE tenant_id = $1 AND id = $2 FOR SHARE`,
			tenantID, *s.LotID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if blocked && !next.AllowedWhenLotBlocked() {
			return nil, apperr.LotBlocked(*s.LotID)
		}
	}

	if !s.Status.CanTransitionTo(next) {
		return nil, apperr.InvalidStateTransition(string(s.Status), string(next))
	}

	s.Status = next
	if notes != nil {
		s.Notes = notes
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE serials SET status = $1, notes = $2, updated_at = now() WHERE tenant_id = $3 AND id = $4`,
		s.Status, s.Notes, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &s, nil
}
