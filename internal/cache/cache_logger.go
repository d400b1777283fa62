package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeDelete deletes cache keys, logging instead of failing.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// SafeInvalidatePattern invalidates a cache pattern, logging instead of failing.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// InvalidateStudentCache drops the cached detail page and the roster listing
// for a student. Called after CRUD writes and after every reconciliation.
func InvalidateStudentCache(ctx context.Context, helper *CacheHelper, studentID string) {
	SafeDelete(ctx, helper, fmt.Sprintf("%sid:%s", StudentCacheConfig.Prefix, studentID))
	SafeInvalidatePattern(ctx, helper, ListCacheConfig.Prefix+"*")
}
