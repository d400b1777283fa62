package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SPMS-2025/progress-service/internal/cache"
	"github.com/SPMS-2025/progress-service/internal/models"
	"github.com/SPMS-2025/progress-service/internal/repositories"
	"github.com/SPMS-2025/progress-service/internal/validator"
)

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// InMemoryStudentRepo backs the student CRUD tests with a map.
type InMemoryStudentRepo struct {
	students  map[string]*models.Student
	createErr error
	listCalls int
}

func NewInMemoryStudentRepo() *InMemoryStudentRepo {
	return &InMemoryStudentRepo{students: make(map[string]*models.Student)}
}

func (m *InMemoryStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.students[student.ID] = student
	return nil
}

func (m *InMemoryStudentRepo) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *InMemoryStudentRepo) GetByIDWithHistory(ctx context.Context, id string) (*models.Student, error) {
	return m.GetByID(ctx, id)
}

func (m *InMemoryStudentRepo) GetByHandle(ctx context.Context, handle string) (*models.Student, error) {
	for _, s := range m.students {
		if s.CodeforcesHandle == handle {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *InMemoryStudentRepo) List(ctx context.Context) ([]*models.Student, error) {
	m.listCalls++
	out := make([]*models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, nil
}

func (m *InMemoryStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.students[student.ID] = student
	return nil
}

func (m *InMemoryStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func (m *InMemoryStudentRepo) UpdateSyncState(ctx context.Context, id string, currentRating, maxRating int, syncedAt time.Time) error {
	s, ok := m.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.CurrentRating = currentRating
	s.MaxRating = maxRating
	s.LastSyncedAt = &syncedAt
	return nil
}

func (m *InMemoryStudentRepo) SetEmailReminders(ctx context.Context, id string, enabled bool) error {
	s, ok := m.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.EmailRemindersEnabled = enabled
	return nil
}

func (m *InMemoryStudentRepo) IncrementInactiveReminders(ctx context.Context, id string) error {
	s, ok := m.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.InactiveReminders++
	return nil
}

// MockStudentServiceRepo aggregates the in-memory student store with the
// recording mocks shared with the sync tests.
type MockStudentServiceRepo struct {
	studentRepo    *InMemoryStudentRepo
	contestRepo    *MockContestHistoryRepo
	submissionRepo *MockSubmissionRepo
	syncLogRepo    *MockSyncLogRepo
	txCount        int
}

func NewMockStudentServiceRepo() *MockStudentServiceRepo {
	return &MockStudentServiceRepo{
		studentRepo:    NewInMemoryStudentRepo(),
		contestRepo:    &MockContestHistoryRepo{},
		submissionRepo: &MockSubmissionRepo{},
		syncLogRepo:    &MockSyncLogRepo{},
	}
}

func (m *MockStudentServiceRepo) Student() repositories.StudentRepository { return m.studentRepo }
func (m *MockStudentServiceRepo) ContestHistory() repositories.ContestHistoryRepository {
	return m.contestRepo
}
func (m *MockStudentServiceRepo) Submission() repositories.SubmissionRepository {
	return m.submissionRepo
}
func (m *MockStudentServiceRepo) User() repositories.UserRepository       { return nil }
func (m *MockStudentServiceRepo) SyncLog() repositories.SyncLogRepository { return m.syncLogRepo }
func (m *MockStudentServiceRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	m.txCount++
	return fn(m)
}
func (m *MockStudentServiceRepo) Ping(ctx context.Context) error { return nil }
func (m *MockStudentServiceRepo) Close() error                   { return nil }

func newTestStudentService(repo *MockStudentServiceRepo) StudentService {
	return NewStudentService(repo, validator.New(), nil, testLogger())
}

func validCreateRequest() *StudentCreateRequest {
	return &StudentCreateRequest{
		Name:             "Alice",
		Email:            "alice@example.com",
		Phone:            "+84 912 345 678",
		CodeforcesHandle: "alice_cf",
	}
}

func TestStudentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("reminders default to enabled", func(t *testing.T) {
		repo := NewMockStudentServiceRepo()
		service := newTestStudentService(repo)

		student, err := service.Create(ctx, validCreateRequest())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if student.ID == "" {
			t.Error("expected a generated id")
		}
		if !student.EmailRemindersEnabled {
			t.Error("reminders should default to enabled")
		}
	})

	t.Run("explicit reminder opt-out is honored", func(t *testing.T) {
		repo := NewMockStudentServiceRepo()
		service := newTestStudentService(repo)

		req := validCreateRequest()
		req.EmailRemindersEnabled = boolPtr(false)
		student, err := service.Create(ctx, req)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if student.EmailRemindersEnabled {
			t.Error("explicit opt-out was ignored")
		}
	})

	t.Run("invalid handle is rejected", func(t *testing.T) {
		service := newTestStudentService(NewMockStudentServiceRepo())

		req := validCreateRequest()
		req.CodeforcesHandle = "has spaces"
		if _, err := service.Create(ctx, req); !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
	})

	t.Run("duplicate email or handle", func(t *testing.T) {
		repo := NewMockStudentServiceRepo()
		repo.studentRepo.createErr = fmt.Errorf(`ERROR: duplicate key value violates unique constraint "idx_students_email"`)
		service := newTestStudentService(repo)

		if _, err := service.Create(ctx, validCreateRequest()); !errors.Is(err, ErrDuplicateStudent) {
			t.Fatalf("expected ErrDuplicateStudent, got %v", err)
		}
	})
}

func TestStudentService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMockStudentServiceRepo()
	service := newTestStudentService(repo)

	created, err := service.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("found", func(t *testing.T) {
		got, err := service.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Email != "alice@example.com" {
			t.Errorf("unexpected student: %+v", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := service.GetByID(ctx, "missing"); !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("expected ErrStudentNotFound, got %v", err)
		}
	})
}

func TestStudentService_List_CacheAside(t *testing.T) {
	ctx := context.Background()
	repo := NewMockStudentServiceRepo()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	helper := cache.NewCacheHelper(client, "test:")

	service := NewStudentService(repo, validator.New(), helper, testLogger())

	if _, err := service.Create(ctx, validCreateRequest()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first, err := service.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 student, got %d", len(first))
	}
	if repo.studentRepo.listCalls != 1 {
		t.Fatalf("expected 1 store read, got %d", repo.studentRepo.listCalls)
	}

	second, err := service.List(ctx)
	if err != nil {
		t.Fatalf("second List failed: %v", err)
	}
	if repo.studentRepo.listCalls != 1 {
		t.Errorf("second List should be served from cache, store read %d times", repo.studentRepo.listCalls)
	}
	if len(second) != 1 {
		t.Errorf("cached roster has %d students, want 1", len(second))
	}

	// A write invalidates the cached roster.
	req := validCreateRequest()
	req.Email = "bob@example.com"
	req.CodeforcesHandle = "bob_cf"
	if _, err := service.Create(ctx, req); err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	third, err := service.List(ctx)
	if err != nil {
		t.Fatalf("third List failed: %v", err)
	}
	if repo.studentRepo.listCalls != 2 {
		t.Errorf("List after a write must hit the store, store read %d times", repo.studentRepo.listCalls)
	}
	if len(third) != 2 {
		t.Errorf("expected 2 students after the write, got %d", len(third))
	}
}

func TestStudentService_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMockStudentServiceRepo()
	service := newTestStudentService(repo)

	created, err := service.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("nil fields stay untouched", func(t *testing.T) {
		updated, err := service.Update(ctx, created.ID, &StudentUpdateRequest{
			Name: strPtr("Alice Cooper"),
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Name != "Alice Cooper" {
			t.Errorf("name not updated: %q", updated.Name)
		}
		if updated.Email != "alice@example.com" {
			t.Errorf("email must stay untouched, got %q", updated.Email)
		}
		if updated.CodeforcesHandle != "alice_cf" {
			t.Errorf("handle must stay untouched, got %q", updated.CodeforcesHandle)
		}
	})

	t.Run("invalid field is rejected", func(t *testing.T) {
		_, err := service.Update(ctx, created.ID, &StudentUpdateRequest{
			Email: strPtr("not-an-email"),
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := service.Update(ctx, "missing", &StudentUpdateRequest{Name: strPtr("Nobody")})
		if !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("expected ErrStudentNotFound, got %v", err)
		}
	})
}

func TestStudentService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMockStudentServiceRepo()
	service := newTestStudentService(repo)

	created, err := service.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if repo.txCount != 1 {
		t.Errorf("delete must run in a transaction, got %d", repo.txCount)
	}
	if len(repo.contestRepo.deletes) != 1 || len(repo.submissionRepo.deletes) != 1 {
		t.Error("owned history rows must be deleted with the student")
	}
	if _, err := service.GetByID(ctx, created.ID); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("student should be gone, got %v", err)
	}

	t.Run("not found", func(t *testing.T) {
		if err := service.Delete(ctx, "missing"); !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("expected ErrStudentNotFound, got %v", err)
		}
	})
}

func TestStudentService_ToggleReminders(t *testing.T) {
	ctx := context.Background()
	repo := NewMockStudentServiceRepo()
	service := newTestStudentService(repo)

	created, err := service.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := service.ToggleReminders(ctx, created.ID)
	if err != nil {
		t.Fatalf("ToggleReminders failed: %v", err)
	}
	if resp.EmailRemindersEnabled {
		t.Error("first toggle should disable reminders")
	}

	resp, err = service.ToggleReminders(ctx, created.ID)
	if err != nil {
		t.Fatalf("second ToggleReminders failed: %v", err)
	}
	if !resp.EmailRemindersEnabled {
		t.Error("second toggle should enable reminders again")
	}
}

func TestStudentService_SyncLogs(t *testing.T) {
	ctx := context.Background()
	repo := NewMockStudentServiceRepo()
	service := newTestStudentService(repo)

	created, err := service.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	repo.syncLogRepo.entries = []*models.SyncLog{
		{StudentID: created.ID, Status: models.SyncSucceeded},
	}

	logs, err := service.SyncLogs(ctx, created.ID, 10)
	if err != nil {
		t.Fatalf("SyncLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("expected 1 log, got %d", len(logs))
	}

	t.Run("not found", func(t *testing.T) {
		if _, err := service.SyncLogs(ctx, "missing", 10); !errors.Is(err, ErrStudentNotFound) {
			t.Fatalf("expected ErrStudentNotFound, got %v", err)
		}
	})
}
