package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SPMS-2025/progress-service/internal/cache"
	"github.com/SPMS-2025/progress-service/internal/codeforces"
	"github.com/SPMS-2025/progress-service/internal/events"
	"github.com/SPMS-2025/progress-service/internal/mailer"
	"github.com/SPMS-2025/progress-service/internal/models"
	"github.com/SPMS-2025/progress-service/internal/repositories"
)

// problemNamePlaceholder is stored when the source omits the problem name.
const problemNamePlaceholder = "Unknown Problem"

// Fetcher is the external-data collaborator of the sync pipeline.
type Fetcher interface {
	Fetch(ctx context.Context, handle string) (*codeforces.FetchResult, error)
}

// BatchSyncResult summarizes one batch run.
type BatchSyncResult struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

type SyncService interface {
	// SyncAll iterates every student sequentially. A failure for one student
	// is logged and does not stop the batch.
	SyncAll(ctx context.Context) (*BatchSyncResult, error)
	// SyncByHandle resolves a student by Codeforces handle and runs
	// fetch + reconcile only.
	SyncByHandle(ctx context.Context, handle string) error
}

type syncService struct {
	repo      repositories.Repository
	fetcher   Fetcher
	mailer    mailer.Mailer
	publisher events.EventPublisher
	cache     *cache.CacheHelper
	logger    *slog.Logger

	inactivityWindow time.Duration
}

func NewSyncService(
	repo repositories.Repository,
	fetcher Fetcher,
	m mailer.Mailer,
	publisher events.EventPublisher,
	cacheHelper *cache.CacheHelper,
	logger *slog.Logger,
	inactivityWindowDays int,
) SyncService {
	return &syncService{
		repo:             repo,
		fetcher:          fetcher,
		mailer:           m,
		publisher:        publisher,
		cache:            cacheHelper,
		logger:           logger,
		inactivityWindow: time.Duration(inactivityWindowDays) * 24 * time.Hour,
	}
}

func (s *syncService) SyncAll(ctx context.Context) (*BatchSyncResult, error) {
	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	result := &BatchSyncResult{Total: len(students)}
	for _, student := range students {
		if err := s.syncStudent(ctx, student, true); err != nil {
			// Per-student isolation: log with the handle and keep going.
			s.logger.Error("student sync failed",
				"handle", student.CodeforcesHandle,
				"student_id", student.ID,
				"error", err)
			if errors.Is(err, ErrHandleNotFound) {
				result.Skipped++
			} else {
				result.Failed++
			}
			continue
		}
		result.Succeeded++
	}

	s.logger.Info("batch sync completed",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"skipped", result.Skipped)
	return result, nil
}

func (s *syncService) SyncByHandle(ctx context.Context, handle string) error {
	student, err := s.repo.Student().GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to resolve student by handle: %w", err)
	}
	return s.syncStudent(ctx, student, false)
}

// syncStudent runs fetch → reconcile, and in batch mode also the inactivity
// check and reminder. The reminder never affects the already-committed
// reconciliation.
func (s *syncService) syncStudent(ctx context.Context, student *models.Student, withReminder bool) error {
	res, err := s.fetcher.Fetch(ctx, student.CodeforcesHandle)
	if err != nil {
		s.recordSyncLog(ctx, student, models.SyncFailed, err, nil)
		s.publishSyncFailed(ctx, student, err)
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	// Unknown handle: abort before touching any stored state.
	if res.Profile == nil {
		err := fmt.Errorf("%w: %s", ErrHandleNotFound, student.CodeforcesHandle)
		s.recordSyncLog(ctx, student, models.SyncSkipped, err, nil)
		return err
	}

	detail, err := s.reconcile(ctx, student.ID, res)
	if err != nil {
		s.recordSyncLog(ctx, student, models.SyncFailed, err, nil)
		s.publishSyncFailed(ctx, student, err)
		return err
	}

	if withReminder {
		detail.ReminderSent = s.maybeNotify(ctx, student)
	}

	s.recordSyncLog(ctx, student, models.SyncSucceeded, nil, detail)
	s.publishSynced(ctx, student, detail)

	if s.cache != nil {
		cache.InvalidateStudentCache(ctx, s.cache, student.ID)
	}
	return nil
}

// reconcile replaces the student's contest and submission history with the
// fetched datasets and updates the rating fields, all in one transaction.
// A reader never observes deleted history without the replacement rows.
func (s *syncService) reconcile(ctx context.Context, studentID string, res *codeforces.FetchResult) (*models.SyncDetail, error) {
	now := time.Now()
	contests := buildContestRows(studentID, res.Ratings)
	submissions := buildSubmissionRows(studentID, res.Submissions)

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.ContestHistory().DeleteByStudent(ctx, studentID); err != nil {
			return fmt.Errorf("delete contest history: %w", err)
		}
		if err := tx.Submission().DeleteByStudent(ctx, studentID); err != nil {
			return fmt.Errorf("delete submissions: %w", err)
		}
		if err := tx.ContestHistory().CreateMany(ctx, contests); err != nil {
			return fmt.Errorf("insert contest history: %w", err)
		}
		if err := tx.Submission().CreateMany(ctx, submissions); err != nil {
			return fmt.Errorf("insert submissions: %w", err)
		}
		if err := tx.Student().UpdateSyncState(ctx, studentID, res.Profile.Rating, res.Profile.MaxRating, now); err != nil {
			return fmt.Errorf("update student ratings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	return &models.SyncDetail{
		ContestCount:    len(contests),
		SubmissionCount: len(submissions),
		CurrentRating:   res.Profile.Rating,
		MaxRating:       res.Profile.MaxRating,
	}, nil
}

// maybeNotify sends the inactivity reminder when the student has no
// submission inside the window and reminders are enabled. Reads post-commit
// state. Returns whether a reminder went out.
func (s *syncService) maybeNotify(ctx context.Context, student *models.Student) bool {
	since := time.Now().Add(-s.inactivityWindow)
	active, err := s.repo.Submission().HasRecentActivity(ctx, student.ID, since)
	if err != nil {
		s.logger.Error("inactivity check failed",
			"student_id", student.ID, "error", err)
		return false
	}
	if active || !student.EmailRemindersEnabled {
		return false
	}

	windowDays := int(s.inactivityWindow / (24 * time.Hour))
	if err := s.mailer.Send(student.Email, mailer.ReminderSubject, mailer.ReminderBody(student.Name, windowDays)); err != nil {
		// A failed reminder is logged and swallowed; the reconciliation
		// already committed and the counter stays untouched.
		s.logger.Error("reminder mail failed",
			"student_id", student.ID, "email", student.Email, "error", err)
		return false
	}

	if err := s.repo.Student().IncrementInactiveReminders(ctx, student.ID); err != nil {
		s.logger.Error("failed to increment reminder counter",
			"student_id", student.ID, "error", err)
	}

	s.publish(ctx, events.NewEvent(events.TypeReminderSent, events.ReminderSentEvent{
		StudentID: student.ID,
		Email:     student.Email,
		Reminders: student.InactiveReminders + 1,
	}))
	return true
}

func buildContestRows(studentID string, ratings []codeforces.RatingEntry) []models.ContestHistory {
	rows := make([]models.ContestHistory, 0, len(ratings))
	for _, r := range ratings {
		rows = append(rows, models.ContestHistory{
			StudentID:   studentID,
			ContestID:   r.ContestID,
			ContestName: r.ContestName,
			Rank:        r.Rank,
			OldRating:   r.OldRating,
			NewRating:   r.NewRating,
			// Recomputed locally; any delta field in the payload is ignored.
			RatingChange: r.NewRating - r.OldRating,
			Date:         time.Unix(r.RatingUpdateTimeSeconds, 0).UTC(),
		})
	}
	return rows
}

func buildSubmissionRows(studentID string, subs []codeforces.SubmissionEntry) []models.Submission {
	rows := make([]models.Submission, 0, len(subs))
	for _, sub := range subs {
		name := sub.Problem.Name
		if name == "" {
			name = problemNamePlaceholder
		}
		rows = append(rows, models.Submission{
			StudentID:     studentID,
			ProblemName:   name,
			ProblemRating: sub.Problem.Rating,
			Verdict:       sub.Verdict,
			Timestamp:     time.Unix(sub.CreationTimeSeconds, 0).UTC(),
			IsSolved:      sub.Verdict == models.VerdictOK,
		})
	}
	return rows
}

func (s *syncService) recordSyncLog(ctx context.Context, student *models.Student, status models.SyncStatus, syncErr error, detail *models.SyncDetail) {
	entry := &models.SyncLog{
		StudentID: student.ID,
		Handle:    student.CodeforcesHandle,
		Status:    status,
	}
	if syncErr != nil {
		msg := syncErr.Error()
		entry.Error = &msg
	}
	if detail != nil {
		if payload, err := json.Marshal(detail); err == nil {
			entry.Detail = payload
		}
	}
	if err := s.repo.SyncLog().Create(ctx, entry); err != nil {
		s.logger.Error("failed to record sync log",
			"student_id", student.ID, "error", err)
	}
}

func (s *syncService) publishSynced(ctx context.Context, student *models.Student, detail *models.SyncDetail) {
	s.publish(ctx, events.NewEvent(events.TypeStudentSynced, events.StudentSyncedEvent{
		StudentID:       student.ID,
		Handle:          student.CodeforcesHandle,
		ContestCount:    detail.ContestCount,
		SubmissionCount: detail.SubmissionCount,
		CurrentRating:   detail.CurrentRating,
		MaxRating:       detail.MaxRating,
	}))
}

func (s *syncService) publishSyncFailed(ctx context.Context, student *models.Student, cause error) {
	s.publish(ctx, events.NewEvent(events.TypeStudentSyncFailed, events.StudentSyncFailedEvent{
		StudentID: student.ID,
		Handle:    student.CodeforcesHandle,
		Reason:    cause.Error(),
	}))
}

func (s *syncService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event",
			"event_type", event.Type, "error", err)
	}
}
