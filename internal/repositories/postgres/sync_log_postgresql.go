package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SPMS-2025/progress-service/internal/models"
	"github.com/SPMS-2025/progress-service/internal/repositories"
)

type SyncLogPostgreSQL struct {
	db *gorm.DB
}

func NewSyncLogPostgreSQL(db *gorm.DB) repositories.SyncLogRepository {
	return &SyncLogPostgreSQL{db: db}
}

func (s *SyncLogPostgreSQL) Create(ctx context.Context, log *models.SyncLog) error {
	return s.db.WithContext(ctx).Create(log).Error
}

func (s *SyncLogPostgreSQL) ListByStudent(ctx context.Context, studentID string, limit int) ([]*models.SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []*models.SyncLog
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
