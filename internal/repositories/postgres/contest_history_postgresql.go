package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SPMS-2025/progress-service/internal/models"
	"github.com/SPMS-2025/progress-service/internal/repositories"
)

const bulkInsertBatchSize = 500

type ContestHistoryPostgreSQL struct {
	db *gorm.DB
}

func NewContestHistoryPostgreSQL(db *gorm.DB) repositories.ContestHistoryRepository {
	return &ContestHistoryPostgreSQL{db: db}
}

func (c *ContestHistoryPostgreSQL) DeleteByStudent(ctx context.Context, studentID string) error {
	return c.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.ContestHistory{}).Error
}

func (c *ContestHistoryPostgreSQL) CreateMany(ctx context.Context, histories []models.ContestHistory) error {
	if len(histories) == 0 {
		return nil
	}
	return c.db.WithContext(ctx).CreateInBatches(histories, bulkInsertBatchSize).Error
}

func (c *ContestHistoryPostgreSQL) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.ContestHistory{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}
