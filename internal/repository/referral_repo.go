package repository

import (
	"errors"
	"time"

	"keyroute/internal/domain"
	"keyroute/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) WithTx(tx *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: tx}
}

// CreateReward persists a new pending reward. The unique index on
// (referred_user_id, booking_type, booking_id) rejects duplicates.
func (r *ReferralRepository) CreateReward(reward *models.ReferralReward) error {
	return r.db.Create(reward).Error
}

// GetRewardForBooking returns the reward registered for a booking, or
// (nil, nil) when none exists.
func (r *ReferralRepository) GetRewardForBooking(bookingType string, bookingID uint) (*models.ReferralReward, error) {
	var reward models.ReferralReward
	err := r.db.Where("booking_type = ? AND booking_id = ?", bookingType, bookingID).First(&reward).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// MarkCredited transitions a pending reward to credited. The status guard in
// the WHERE clause makes the transition idempotent: a second call matches
// zero rows.
func (r *ReferralRepository) MarkCredited(rewardID uint, at time.Time) (bool, error) {
	res := r.db.Model(&models.ReferralReward{}).
		Where("id = ? AND status = ?", rewardID, domain.RewardStatusPending).
		Updates(map[string]interface{}{"status": domain.RewardStatusCredited, "credited_at": at})
	return res.RowsAffected > 0, res.Error
}

// MarkCancelled transitions a pending reward to cancelled. Credited rewards
// are immutable, so the guard only matches pending rows.
func (r *ReferralRepository) MarkCancelled(rewardID uint) (bool, error) {
	res := r.db.Model(&models.ReferralReward{}).
		Where("id = ? AND status = ?", rewardID, domain.RewardStatusPending).
		Update("status", domain.RewardStatusCancelled)
	return res.RowsAffected > 0, res.Error
}

func (r *ReferralRepository) ListRewards(limit, offset int) ([]models.ReferralReward, error) {
	var list []models.ReferralReward
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ReferralRepository) ListRewardsByReferrer(referrerID uint, limit, offset int) ([]models.ReferralReward, error) {
	var list []models.ReferralReward
	err := r.db.Where("referrer_id = ?", referrerID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
