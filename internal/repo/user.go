package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/web_store/internal/models"
)

type Users struct {
	DB *gorm.DB
}

// Create relies on the unique indexes as the final authority on duplicate
// email/username; callers see ErrDuplicate either way.
func (r *Users) Create(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *Users) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Taken is the fast-path duplicate check before insert; it only exists for a
// friendlier error message, the unique constraint still decides.
func (r *Users) Taken(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
