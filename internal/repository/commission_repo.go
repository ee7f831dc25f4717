package repository

import (
	"errors"

	"keyroute/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) WithTx(tx *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: tx}
}

// GetSlabForAmount returns the slab whose range contains amount, or nil
// when no slab matches. Slab ranges are non-overlapping reference data, so
// at most one row can match.
func (r *CommissionRepository) GetSlabForAmount(amount decimal.Decimal) (*models.CommissionSlab, error) {
	var slab models.CommissionSlab
	err := r.db.Where("min_amount <= ? AND max_amount >= ?", amount, amount).First(&slab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slab, nil
}

func (r *CommissionRepository) ListSlabs() ([]models.CommissionSlab, error) {
	var slabs []models.CommissionSlab
	err := r.db.Order("min_amount ASC").Find(&slabs).Error
	return slabs, err
}

func (r *CommissionRepository) CreateSlab(slab *models.CommissionSlab) error {
	return r.db.Create(slab).Error
}

func (r *CommissionRepository) UpdateSlab(slab *models.CommissionSlab) error {
	return r.db.Model(&models.CommissionSlab{}).Where("id = ?", slab.ID).Updates(map[string]interface{}{
		"min_amount":            slab.MinAmount,
		"max_amount":            slab.MaxAmount,
		"commission_percentage": slab.CommissionPercentage,
		"advance_percentage":    slab.AdvancePercentage,
	}).Error
}

func (r *CommissionRepository) DeleteSlab(id uint) error {
	return r.db.Delete(&models.CommissionSlab{}, id).Error
}

func (r *CommissionRepository) GetRecord(bookingType string, bookingID uint) (*models.CommissionRecord, error) {
	var rec models.CommissionRecord
	err := r.db.Where("booking_type = ? AND booking_id = ?", bookingType, bookingID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *CommissionRepository) CreateRecord(rec *models.CommissionRecord) error {
	return r.db.Create(rec).Error
}

// UpdateRecord rewrites the computed figures of an existing record in place.
func (r *CommissionRepository) UpdateRecord(rec *models.CommissionRecord) error {
	return r.db.Model(rec).Updates(map[string]interface{}{
		"advance_amount":        rec.AdvanceAmount,
		"commission_percentage": rec.CommissionPercentage,
		"revenue_to_admin":      rec.RevenueToAdmin,
	}).Error
}

func (r *CommissionRepository) ListRecords(limit, offset int) ([]models.CommissionRecord, error) {
	var list []models.CommissionRecord
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
