package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/model"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Upsert(ctx context.Context, input *dto.UpsertStockInput) (*model.StockEntry, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	entry, err := lockRowByKey(ctx, tx, input.TenantID, input.ProductID, input.LocationID, input.LotID)
	if err != nil {
		return nil, err
	}

	var before decimal.Decimal
	if entry == nil {
		entry = &model.StockEntry{
			ID:               uuid.New().String(),
			TenantID:         input.TenantID,
			ProductID:        input.ProductID,
			LocationID:       input.LocationID,
			LotID:            input.LotID,
			QuantityOnHand:   input.QuantityOnHand,
			QuantityReserved: decimal.Zero,
			LastMovementAt:   now,
		}
		_, err = tx.NamedExecContext(ctx, `
            INSERT INTO stock_entries (
                id, tenant_id, product_id, location_id, lot_id,
                quantity_on_hand, quantity_reserved, last_movement_at
            )
            VALUES (
                :id, :tenant_id, :product_id, :location_id, :lot_id,
                :quantity_on_hand, :quantity_reserved, :last_movement_at
            )
        `, entry)
		if err != nil {
			return nil, err
		}
	} else {
		// Set semantics: the incoming value replaces on-hand. Reject rather
		// than silently truncate an active reservation.
		if input.QuantityOnHand.LessThan(entry.QuantityReserved) {
			return nil, apperr.Conflict(apperr.CodeReservationExceedsStock,
				"on-hand %s would undercut reserved %s",
				input.QuantityOnHand.String(), entry.QuantityReserved.String())
		}
		before = entry.QuantityOnHand
		entry.QuantityOnHand = input.QuantityOnHand
		entry.LastMovementAt = now

		_, err = tx.ExecContext(ctx,
			`UPDATE stock_entries SET quantity_on_hand = $1, last_movement_at = $2 WHERE id = $3`,
			entry.QuantityOnHand, now, entry.ID)
		if err != nil {
			return nil, err
		}
	}

	movement := newMovement(entry, model.MovementAdjustment, input.QuantityOnHand.Sub(before), before, entry.QuantityOnHand, now)
	movement.Notes = input.Notes
	if input.UserID != "" {
		movement.CreatedBy = &input.UserID
	}
	if err := insertMovement(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *PGRepository) FindByKey(ctx context.Context, tenantID, productID, locationID string, lotID *string) (*model.StockEntry, error) {
	query := `
        SELECT * FROM stock_entries
        WHERE tenant_id = $1 AND product_id = $2 AND location_id = $3
    `
	args := []interface{}{tenantID, productID, locationID}
	if lotID != nil {
		query += ` AND lot_id = $4`
		args = append(args, *lotID)
	} else {
		query += ` AND lot_id IS NULL`
	}

	var entry model.StockEntry
	err := r.DB.GetContext(ctx, &entry, query+` LIMIT 1`, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.StockFilters) ([]model.StockEntry, int, error) {
	var entries []model.StockEntry
	var count int

	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.LotID != nil {
		if *f.LotID == "" {
			conditions = append(conditions, "lot_id IS NULL")
		} else {
			conditions = append(conditions, "lot_id = :lot_id")
			args["lot_id"] = *f.LotID
		}
	}
	if f.LowStock {
		conditions = append(conditions, "quantity_on_hand <= :threshold")
		args["threshold"] = f.Threshold
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM stock_entries" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_entries" + whereClause + " ORDER BY last_movement_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &entries, args)
	return entries, count, err
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var movements []model.StockMovement
	var count int

	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &movements, args)
	return movements, count, err
}

func (r *PGRepository) Reserve(ctx context.Context, input *dto.ReserveStockInput) (*model.StockEntry, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var entry *model.StockEntry
	if input.LotID != nil {
		entry, err = lockRowByKey(ctx, tx, input.TenantID, input.ProductID, input.LocationID, input.LotID)
	} else {
		entry, err = lockBestRow(ctx, tx, input.TenantID, input.ProductID, input.LocationID)
	}
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperr.NotFound("stock entry", input.ProductID+"@"+input.LocationID)
	}

	// Re-check the block flag under a share lock after the row is chosen: a
	// block committed between candidate selection and here must win.
	if entry.LotID != nil {
		var blocked bool
		err = tx.GetContext(ctx, &blocked,
			`SELECT blocked FROM lots WHERE tenant_id = $1 AND id = $2 FOR SHARE`,
			input.TenantID, *entry.LotID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if blocked {
			return nil, apperr.LotBlocked(*entry.LotID)
		}
	}

	if entry.Available().LessThan(input.Quantity) {
		return nil, apperr.Conflict(apperr.CodeInsufficientStock,
			"available %s is less than requested %s",
			entry.Available().String(), input.Quantity.String())
	}

	now := time.Now().UTC()
	before := entry.QuantityReserved
	entry.QuantityReserved = entry.QuantityReserved.Add(input.Quantity)
	entry.LastMovementAt = now

	_, err = tx.ExecContext(ctx,
		`UPDATE stock_entries SET quantity_reserved = $1, last_movement_at = $2 WHERE id = $3`,
		entry.QuantityReserved, now, entry.ID)
	if err != nil {
		return nil, err
	}

	movement := newMovement(entry, model.MovementReserve, input.Quantity, before, entry.QuantityReserved, now)
	setReference(movement, input.ReferenceType, input.ReferenceID, input.UserID)
	if err := insertMovement(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *PGRepository) Release(ctx context.Context, input *dto.ReleaseStockInput) (*model.StockEntry, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := lockRowByKey(ctx, tx, input.TenantID, input.ProductID, input.LocationID, input.LotID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperr.NotFound("stock entry", input.ProductID+"@"+input.LocationID)
	}

	if input.Quantity.GreaterThan(entry.QuantityReserved) {
		return nil, apperr.Conflict(apperr.CodeOverRelease,
			"release %s exceeds reserved %s",
			input.Quantity.String(), entry.QuantityReserved.String())
	}

	now := time.Now().UTC()
	before := entry.QuantityReserved
	entry.QuantityReserved = entry.QuantityReserved.Sub(input.Quantity)
	entry.LastMovementAt = now

	_, err = tx.ExecContext(ctx,
		`UPDATE stock_entries SET quantity_reserved = $1, last_movement_at = $2 WHERE id = $3`,
		entry.QuantityReserved, now, entry.ID)
	if err != nil {
		return nil, err
	}

	movement := newMovement(entry, model.MovementRelease, input.Quantity.Neg(), before, entry.QuantityReserved, now)
	setReference(movement, input.ReferenceType, input.ReferenceID, input.UserID)
	if err := insertMovement(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func lockRowByKey(ctx context.Context, tx *sqlx.Tx, tenantID, productID, locationID string, lotID *string) (*model.StockEntry, error) {
	query := `
        SELECT * FROM stock_entries
        WHERE tenant_id = $1 AND product_id = $2 AND location_id = $3
    `
	args := []interface{}{tenantID, productID, locationID}
	if lotID != nil {
		query += ` AND lot_id = $4`
		args = append(args, *lotID)
	} else {
		query += ` AND lot_id IS NULL`
	}
	query += ` FOR UPDATE`

	var entry model.StockEntry
	err := tx.GetContext(ctx, &entry, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// lockBestRow picks the reservation candidate when no lot was requested: the
// unblocked row with the greatest available quantity, ties broken by lowest
// lot code with the no-lot bucket first. A request is never split across rows.
func lockBestRow(ctx context.Context, tx *sqlx.Tx, tenantID, productID, locationID string) (*model.StockEntry, error) {
	query := `
        SELECT se.* FROM stock_entries se
        LEFT JOIN lots l ON l.id = se.lot_id
        WHERE se.tenant_id = $1 AND se.product_id = $2 AND se.location_id = $3
          AND (se.lot_id IS NULL OR (l.blocked = FALSE AND l.deleted_at IS NULL))
        ORDER BY (se.quantity_on_hand - se.quantity_reserved) DESC, COALESCE(l.code, '') ASC
        LIMIT 1
        FOR UPDATE OF se
    `
	var entry model.StockEntry
	err := tx.GetContext(ctx, &entry, query, tenantID, productID, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func newMovement(entry *model.StockEntry, movementType string, change, before, after decimal.Decimal, at time.Time) *model.StockMovement {
	return &model.StockMovement{
		ID:             uuid.New().String(),
		TenantID:       entry.TenantID,
		ProductID:      entry.ProductID,
		LocationID:     entry.LocationID,
		LotID:          entry.LotID,
		MovementType:   movementType,
		QuantityChange: change,
		QuantityBefore: before,
		QuantityAfter:  after,
		CreatedAt:      at,
	}
}

func setReference(m *model.StockMovement, refType, refID, userID string) {
	if refType != "" {
		m.ReferenceType = &refType
	}
	if refID != "" {
		m.ReferenceID = &refID
	}
	if userID != "" {
		m.CreatedBy = &userID
	}
}

func insertMovement(ctx context.Context, tx *sqlx.Tx, m *model.StockMovement) error {
	query := `
        INSERT INTO stock_movements (
            id, tenant_id, product_id, location_id, lot_id, movement_type,
            quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :tenant_id, :product_id, :location_id, :lot_id, :movement_type,
            :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, m)
	return err
}
