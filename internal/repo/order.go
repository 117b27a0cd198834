package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/web_store/internal/models"
)

type Orders struct {
	DB *gorm.DB
}

func (r *Orders) List(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *Orders) ByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *Orders) Create(ctx context.Context, o *models.Order) error {
	return translate(r.DB.WithContext(ctx).Create(o).Error)
}

func (r *Orders) UpdateStatus(ctx context.Context, id uint, status string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *Orders) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.DB.WithContext(ctx).Delete(&models.Order{}, id)
	return res.RowsAffected, res.Error
}
