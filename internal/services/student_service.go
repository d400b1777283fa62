package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SPMS-2025/progress-service/internal/cache"
	"github.com/SPMS-2025/progress-service/internal/models"
	"github.com/SPMS-2025/progress-service/internal/repositories"
	"github.com/SPMS-2025/progress-service/internal/validator"
)

type StudentCreateRequest = validator.StudentCreateRequest
type StudentUpdateRequest = validator.StudentUpdateRequest

type ToggleReminderResponse struct {
	ID                    string `json:"id"`
	EmailRemindersEnabled bool   `json:"emailRemindersEnabled"`
}

type StudentService interface {
	Create(ctx context.Context, req *StudentCreateRequest) (*models.Student, error)
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, id string, req *StudentUpdateRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
	ToggleReminders(ctx context.Context, id string) (*ToggleReminderResponse, error)
	SyncLogs(ctx context.Context, id string, limit int) ([]*models.SyncLog, error)
}

type studentService struct {
	repo      repositories.Repository
	validator *validator.Validator
	cache     *cache.CacheHelper
	logger    *slog.Logger
}

func NewStudentService(repo repositories.Repository, v *validator.Validator, cacheHelper *cache.CacheHelper, logger *slog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		validator: v,
		cache:     cacheHelper,
		logger:    logger,
	}
}

func (s *studentService) Create(ctx context.Context, req *StudentCreateRequest) (*models.Student, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	student := &models.Student{
		ID:                    uuid.New().String(),
		Name:                  req.Name,
		Email:                 req.Email,
		Phone:                 req.Phone,
		CodeforcesHandle:      req.CodeforcesHandle,
		EmailRemindersEnabled: true,
	}
	if req.EmailRemindersEnabled != nil {
		student.EmailRemindersEnabled = *req.EmailRemindersEnabled
	}

	if err := s.repo.Student().Create(ctx, student); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateStudent
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.invalidate(ctx, student.ID)
	s.logger.Info("student created", "student_id", student.ID, "handle", student.CodeforcesHandle)
	return student, nil
}

func (s *studentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student

	load := func() (interface{}, error) {
		found, err := s.repo.Student().GetByIDWithHistory(ctx, id)
		if err != nil {
			return nil, err
		}
		return found, nil
	}

	if s.cache != nil {
		key := cache.StudentCacheConfig.Prefix + "id:" + id
		err := s.cache.CacheOrExecute(ctx, key, &student, cache.StudentCacheConfig.TTL, load)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, fmt.Errorf("failed to get student: %w", err)
		}
		return &student, nil
	}

	found, err := s.repo.Student().GetByIDWithHistory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return found, nil
}

func (s *studentService) List(ctx context.Context) ([]*models.Student, error) {
	load := func() (interface{}, error) {
		return s.repo.Student().List(ctx)
	}

	if s.cache != nil {
		var students []*models.Student
		key := cache.ListCacheConfig.Prefix + "all"
		if err := s.cache.CacheOrExecute(ctx, key, &students, cache.ListCacheConfig.TTL, load); err != nil {
			return nil, fmt.Errorf("failed to list students: %w", err)
		}
		return students, nil
	}

	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *studentService) Update(ctx context.Context, id string, req *StudentUpdateRequest) (*models.Student, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.CodeforcesHandle != nil {
		student.CodeforcesHandle = *req.CodeforcesHandle
	}
	if req.EmailRemindersEnabled != nil {
		student.EmailRemindersEnabled = *req.EmailRemindersEnabled
	}

	if err := s.repo.Student().Update(ctx, student); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateStudent
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.invalidate(ctx, id)
	return student, nil
}

// Delete removes the student together with its owned history rows, in one
// transaction, matching the cascade the data model requires.
func (s *studentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Student().GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to load student: %w", err)
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.ContestHistory().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		if err := tx.Submission().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		return tx.Student().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.invalidate(ctx, id)
	s.logger.Info("student deleted", "student_id", id)
	return nil
}

func (s *studentService) ToggleReminders(ctx context.Context, id string) (*ToggleReminderResponse, error) {
	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	enabled := !student.EmailRemindersEnabled
	if err := s.repo.Student().SetEmailReminders(ctx, id, enabled); err != nil {
		return nil, fmt.Errorf("failed to toggle reminders: %w", err)
	}

	s.invalidate(ctx, id)
	return &ToggleReminderResponse{ID: id, EmailRemindersEnabled: enabled}, nil
}

func (s *studentService) SyncLogs(ctx context.Context, id string, limit int) ([]*models.SyncLog, error) {
	if _, err := s.repo.Student().GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	logs, err := s.repo.SyncLog().ListByStudent(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}
	return logs, nil
}

func (s *studentService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		cache.InvalidateStudentCache(ctx, s.cache, id)
	}
}

// isUniqueViolation matches duplicate-key errors from the database.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
