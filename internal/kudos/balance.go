package kudos

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/kudosboard/internal/database/models"
	"gorm.io/gorm"
)

// TrySpend atomically decrements the user's kudos balance by one. The guard
// is a single conditional UPDATE: it only matches while the balance is
// positive, so two concurrent spends at balance 1 produce exactly one success
// and the balance can never go negative.
//
// Must run inside the transaction that writes the transfer row, so that a
// failed insert rolls the decrement back.
func TrySpend(tx *gorm.DB, userID uuid.UUID) (int, error) {
	res := tx.Model(&models.User{}).
		Where("id = ? AND kudos_available > 0", userID).
		UpdateColumn("kudos_available", gorm.Expr("kudos_available - 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrInsufficientBalance
	}

	var balance int
	if err := tx.Model(&models.User{}).
		Select("kudos_available").
		Where("id = ?", userID).
		Scan(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInsufficientBalance
		}
		return 0, err
	}

	return balance, nil
}
