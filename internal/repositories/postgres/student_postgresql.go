package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SPMS-2025/progress-service/internal/models"
	"github.com/SPMS-2025/progress-service/internal/repositories"
)

type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

func (s *StudentPostgreSQL) Create(ctx context.Context, student *models.Student) error {
	return s.db.WithContext(ctx).Create(student).Error
}

func (s *StudentPostgreSQL) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) GetByIDWithHistory(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).
		Preload("ContestHistories", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC")
		}).
		First(&student, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) GetByHandle(ctx context.Context, handle string) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).First(&student, "codeforces_handle = ?", handle).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) List(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *StudentPostgreSQL) Update(ctx context.Context, student *models.Student) error {
	return s.db.WithContext(ctx).Save(student).Error
}

func (s *StudentPostgreSQL) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Student{}, "id = ?", id).Error
}

func (s *StudentPostgreSQL) UpdateSyncState(ctx context.Context, id string, currentRating, maxRating int, syncedAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_rating": currentRating,
			"max_rating":     maxRating,
			"last_synced_at": syncedAt,
		}).Error
}

func (s *StudentPostgreSQL) SetEmailReminders(ctx context.Context, id string, enabled bool) error {
	return s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Update("email_reminders_enabled", enabled).Error
}

func (s *StudentPostgreSQL) IncrementInactiveReminders(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		UpdateColumn("inactive_reminders", gorm.Expr("inactive_reminders + ?", 1)).Error
}
