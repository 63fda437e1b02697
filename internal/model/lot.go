package model

import (
	"time"

	"github.com/fluxpos/warehouse-service/internal/apperr"
)

// QualityStatus is the closed quality enum for a lot. It is orthogonal to the
// blocked flag: rejecting a lot does not block it and blocking does not touch
// its quality.
type QualityStatus string

const (
	QualityPending     QualityStatus = "pending"
	QualityApproved    QualityStatus = "approved"
	QualityQuarantined QualityStatus = "quarantined"
	QualityRejected    QualityStatus = "rejected"
)

func ParseQualityStatus(s string) (QualityStatus, error) {
	switch QualityStatus(s) {
	case QualityPending, QualityApproved, QualityQuarantined, QualityRejected:
		return QualityStatus(s), nil
	}
	return "", apperr.InvalidArgument("unknown quality status %q", s)
}

type Lot struct {
	BaseModel
	TenantID        string        `db:"tenant_id" json:"tenant_id"`
	ProductID       string        `db:"product_id" json:"product_id"`
	Code            string        `db:"code" json:"code"`
	ManufactureDate time.Time     `db:"manufacture_date" json:"manufacture_date"`
	ExpiryDate      *time.Time    `db:"expiry_date" json:"expiry_date"`
	QualityStatus   QualityStatus `db:"quality_status" json:"quality_status"`
	QualityNotes    *string       `db:"quality_notes" json:"quality_notes"`
	Blocked         bool          `db:"blocked" json:"blocked"`
	BlockReason     *string       `db:"block_reason" json:"block_reason"`
	BlockedAt       *time.Time    `db:"blocked_at" json:"blocked_at"`
	BlockedBy       *string       `db:"blocked_by" json:"blocked_by"`
	CreatedBy       *string       `db:"created_by" json:"created_by"`
	DeletedAt       *time.Time    `db:"deleted_at" json:"-"`
}
