package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/web_store/internal/models"
)

type RefreshTokens struct {
	DB *gorm.DB
}

// Upsert overwrites the user's previous refresh token, so at most one is
// live per user and a second login invalidates the first.
func (r *RefreshTokens) Upsert(ctx context.Context, userID uint, token string, expiresAt time.Time) error {
	row := models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "created_at"}),
		}).
		Create(&row).Error
}

func (r *RefreshTokens) ByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&stored).Error; err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

// DeleteByToken is idempotent: deleting a token that is already gone is not
// an error.
func (r *RefreshTokens) DeleteByToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}
