package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SPMS-2025/progress-service/internal/models"
	"github.com/SPMS-2025/progress-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) DeleteByStudent(ctx context.Context, studentID string) error {
	return s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.Submission{}).Error
}

func (s *SubmissionPostgreSQL) CreateMany(ctx context.Context, submissions []models.Submission) error {
	if len(submissions) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(submissions, bulkInsertBatchSize).Error
}

func (s *SubmissionPostgreSQL) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

func (s *SubmissionPostgreSQL) HasRecentActivity(ctx context.Context, studentID string, since time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("student_id = ? AND timestamp >= ?", studentID, since).
		Count(&count).Error
	return count > 0, err
}
