package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/web_store/internal/models"
)

type Products struct {
	DB *gorm.DB
}

func (r *Products) List(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	err := r.DB.WithContext(ctx).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Products) ByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *Products) Create(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error)
}

func (r *Products) Update(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Save(p).Error)
}

func (r *Products) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	return res.RowsAffected, res.Error
}
