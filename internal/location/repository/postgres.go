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
	"github.com/fluxpos/warehouse-service/internal/location/dto"
	"github.com/fluxpos/warehouse-service/internal/model"
)

const pgUniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateFacility(ctx context.Context, f *model.StorageFacility) error {
	query := `
        INSERT INTO storage_facilities (id, tenant_id, name, address, is_active, created_at, updated_at)
        VALUES (:id, :tenant_id, :name, :address, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, f)
	return err
}

func (r *PGRepository) FindFacilityByID(ctx context.Context, tenantID, id string) (*model.StorageFacility, error) {
	var f model.StorageFacility
	query := `SELECT * FROM storage_facilities WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL LIMIT 1`
	err := r.DB.GetContext(ctx, &f, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGRepository) FindFacilities(ctx context.Context, f *dto.FacilityFilters) ([]model.StorageFacility, int, error) {
	var facilities []model.StorageFacility
	var count int

	conditions := []string{"tenant_id = :tenant_id", "deleted_at IS NULL"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM storage_facilities" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM storage_facilities" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &facilities, args)
	return facilities, count, err
}

func (r *PGRepository) UpdateFacility(ctx context.Context, f *model.StorageFacility) error {
	query := `
        UPDATE storage_facilities
        SET name = :name,
            address = :address,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND tenant_id = :tenant_id AND deleted_at IS NULL
    `
	_, err := r.DB.NamedExecContext(ctx, query, f)
	return err
}

func (r *PGRepository) ArchiveFacility(ctx context.Context, tenantID, id string) error {
	query := `
        UPDATE storage_facilities
        SET deleted_at = now(), is_active = FALSE, updated_at = now()
        WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
    `
	_, err := r.DB.ExecContext(ctx, query, tenantID, id)
	return err
}

func (r *PGRepository) CreateLocation(ctx context.Context, l *model.StorageLocation) error {
	query := `
        INSERT INTO storage_locations (id, tenant_id, facility_id, code, capacity, created_at, updated_at)
        VALUES (:id, :tenant_id, :facility_id, :code, :capacity, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return mapDuplicateCode(err, l.Code)
}

func (r *PGRepository) FindLocationByID(ctx context.Context, tenantID, id string) (*model.StorageLocation, error) {
	var l model.StorageLocation
	query := `SELECT * FROM storage_locations WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL LIMIT 1`
	err := r.DB.GetContext(ctx, &l, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) FindLocationByCode(ctx context.Context, tenantID, facilityID, code string) (*model.StorageLocation, error) {
	var l model.StorageLocation
	query := `
        SELECT * FROM storage_locations
        WHERE tenant_id = $1 AND facility_id = $2 AND code = $3 AND deleted_at IS NULL
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &l, query, tenantID, facilityID, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) FindLocations(ctx context.Context, f *dto.LocationFilters) ([]model.StorageLocation, int, error) {
	var locations []model.StorageLocation
	var count int

	conditions := []string{"tenant_id = :tenant_id", "deleted_at IS NULL"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.FacilityID != "" {
		conditions = append(conditions, "facility_id = :facility_id")
		args["facility_id"] = f.FacilityID
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM storage_locations" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM storage_locations" + whereClause + " ORDER BY code ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &locations, args)
	return locations, count, err
}

func (r *PGRepository) UpdateLocation(ctx context.Context, l *model.StorageLocation) error {
	query := `
        UPDATE storage_locations
        SET code = :code,
            capacity = :capacity,
            updated_at = :updated_at
        WHERE id = :id AND tenant_id = :tenant_id AND deleted_at IS NULL
    `
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return mapDuplicateCode(err, l.Code)
}

func (r *PGRepository) ArchiveLocation(ctx context.Context, tenantID, id string) error {
	query := `
        UPDATE storage_locations
        SET deleted_at = now(), updated_at = now()
        WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
    `
	_, err := r.DB.ExecContext(ctx, query, tenantID, id)
	return err
}

// mapDuplicateCode translates the unique-index violation on (facility, code)
// into the typed conflict the contract promises.
func mapDuplicateCode(err error, code string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Conflict(apperr.CodeDuplicateCode, "location code %q already exists in this facility", code)
	}
	return err
}
