package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/web_store/internal/models"
)

type Inventory struct {
	DB *gorm.DB
}

func (r *Inventory) List(ctx context.Context, limit, offset int) ([]models.InventoryItem, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.InventoryItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.InventoryItem
	err := r.DB.WithContext(ctx).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Inventory) ByProductID(ctx context.Context, productID uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.DB.WithContext(ctx).Where("product_id = ?", productID).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// Upsert keeps one stock row per product.
func (r *Inventory) Upsert(ctx context.Context, item *models.InventoryItem) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "location", "updated_at"}),
		}).
		Create(item).Error
}

func (r *Inventory) Delete(ctx context.Context, productID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.InventoryItem{})
	return res.RowsAffected, res.Error
}
