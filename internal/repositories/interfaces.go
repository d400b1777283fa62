package repositories

import (
	"context"
	"time"

	"github.com/SPMS-2025/progress-service/internal/models"
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	// GetByIDWithHistory preloads contest histories and submissions.
	GetByIDWithHistory(ctx context.Context, id string) (*models.Student, error)
	GetByHandle(ctx context.Context, handle string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error

	// UpdateSyncState sets the rating fields and lastSyncedAt after a sync.
	UpdateSyncState(ctx context.Context, id string, currentRating, maxRating int, syncedAt time.Time) error
	SetEmailReminders(ctx context.Context, id string, enabled bool) error
	IncrementInactiveReminders(ctx context.Context, id string) error
}

type ContestHistoryRepository interface {
	DeleteByStudent(ctx context.Context, studentID string) error
	CreateMany(ctx context.Context, histories []models.ContestHistory) error
	CountByStudent(ctx context.Context, studentID string) (int64, error)
}

type SubmissionRepository interface {
	DeleteByStudent(ctx context.Context, studentID string) error
	CreateMany(ctx context.Context, submissions []models.Submission) error
	CountByStudent(ctx context.Context, studentID string) (int64, error)
	// HasRecentActivity reports whether any submission for the student is
	// timestamped at or after since.
	HasRecentActivity(ctx context.Context, studentID string, since time.Time) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type SyncLogRepository interface {
	Create(ctx context.Context, log *models.SyncLog) error
	ListByStudent(ctx context.Context, studentID string, limit int) ([]*models.SyncLog, error)
}
