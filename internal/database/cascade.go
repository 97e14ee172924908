package database

import (
	"fmt"

	"finance-tracker/internal/models"

	"gorm.io/gorm"
)

// DeleteCategory removes a category owned by userID. Expenses that referenced
// it are kept with a NULL category. Returns gorm.ErrRecordNotFound when the
// category does not exist or belongs to someone else.
func DeleteCategory(db *gorm.DB, userID, categoryID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Expense{}).
			Where("category_id = ?", cat.ID).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach expenses: %w", err)
		}
		if err := tx.Delete(&cat).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

// DeleteUser removes a user together with everything they own.
func DeleteUser(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&models.Expense{},
			&models.MonthlyBudget{},
			&models.Category{},
			&models.Session{},
			&models.AuditLog{},
		}
		for _, m := range owned {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return fmt.Errorf("delete %T: %w", m, err)
			}
		}
		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
