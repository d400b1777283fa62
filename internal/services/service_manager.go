package services

import (
	"log/slog"

	"github.com/SPMS-2025/progress-service/internal/cache"
	"github.com/SPMS-2025/progress-service/internal/events"
	"github.com/SPMS-2025/progress-service/internal/mailer"
	"github.com/SPMS-2025/progress-service/internal/repositories"
	"github.com/SPMS-2025/progress-service/internal/validator"
)

// ServiceManager bundles all service instances for the handler layer.
type ServiceManager interface {
	Auth() AuthService
	Student() StudentService
	Sync() SyncService
	Contact() ContactService
	Export() ExportService
}

// ServiceManagerConfig holds cross-service configuration.
type ServiceManagerConfig struct {
	Auth                 AuthConfig
	ContactInbox         string
	InactivityWindowDays int
}

type serviceManager struct {
	authService    AuthService
	studentService StudentService
	syncService    SyncService
	contactService ContactService
	exportService  ExportService
}

func NewServiceManager(
	repo repositories.Repository,
	fetcher Fetcher,
	m mailer.Mailer,
	publisher events.EventPublisher,
	cacheHelper *cache.CacheHelper,
	v *validator.Validator,
	logger *slog.Logger,
	cfg ServiceManagerConfig,
) ServiceManager {
	return &serviceManager{
		authService:    NewAuthService(repo, v, logger, cfg.Auth),
		studentService: NewStudentService(repo, v, cacheHelper, logger),
		syncService:    NewSyncService(repo, fetcher, m, publisher, cacheHelper, logger, cfg.InactivityWindowDays),
		contactService: NewContactService(m, v, logger, cfg.ContactInbox),
		exportService:  NewExportService(repo, logger),
	}
}

func (sm *serviceManager) Auth() AuthService       { return sm.authService }
func (sm *serviceManager) Student() StudentService { return sm.studentService }
func (sm *serviceManager) Sync() SyncService       { return sm.syncService }
func (sm *serviceManager) Contact() ContactService { return sm.contactService }
func (sm *serviceManager) Export() ExportService   { return sm.exportService }
