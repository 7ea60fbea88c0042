package repository

import (
	"gadget-prima-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BrandRepository interface {
	Create(brand *model.Brand) error
	FindAll() ([]model.Brand, error)
	FindByID(id uuid.UUID) (*model.Brand, error)
	Update(brand *model.Brand) error
	Delete(id uuid.UUID) error
}

type brandRepo struct {
	db *gorm.DB
}

func NewBrandRepo(db *gorm.DB) BrandRepository {
	return &brandRepo{db}
}

func (r *brandRepo) Create(brand *model.Brand) error {
	return r.db.Create(brand).Error
}

func (r *brandRepo) FindAll() ([]model.Brand, error) {
	var brands []model.Brand
	err := r.db.Order("name ASC").Find(&brands).Error
	return brands, err
}

func (r *brandRepo) FindByID(id uuid.UUID) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.First(&brand, "id = ?", id).Error
	return &brand, err
}

func (r *brandRepo) Update(brand *model.Brand) error {
	return r.db.Save(brand).Error
}

func (r *brandRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Brand{}, "id = ?", id).Error
}
