package repositories

import "context"

// Repository aggregates all entity repositories behind one handle.
type Repository interface {
	Student() StudentRepository
	ContestHistory() ContestHistoryRepository
	Submission() SubmissionRepository
	User() UserRepository
	SyncLog() SyncLogRepository

	// WithTransaction executes fn against a transaction-bound Repository.
	// Either every operation inside fn commits or none do.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}
