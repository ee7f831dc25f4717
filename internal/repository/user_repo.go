package repository

import (
	"errors"

	"keyroute/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByMobile(mobile string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("mobile = ?", mobile).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

// ResolveReferrer finds the user a referral identifier points at, trying
// mobile, then email, then a suffix match on mobile (numbers are often
// stored with a country prefix the user didn't type). Returns (nil, nil)
// when nothing matches: an absent referrer is a business state, not a fault.
func (r *UserRepository) ResolveReferrer(identifier string) (*models.User, error) {
	if identifier == "" {
		return nil, nil
	}
	var u models.User
	err := r.db.Where("mobile = ?", identifier).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	err = r.db.Where("email = ?", identifier).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	err = r.db.Where("mobile LIKE ?", "%"+identifier).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}
