package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/classpoint/classroom-service/internal/ai"
	"github.com/classpoint/classroom-service/internal/events"
	"github.com/classpoint/classroom-service/internal/repositories"
	"github.com/classpoint/classroom-service/internal/utils"
	"github.com/classpoint/classroom-service/internal/validator"
)

// ServiceDependencies carries everything the service layer needs wired in.
// Subscriber and Generator may be nil; the dependent operations then report
// unavailability instead of failing at startup.
type ServiceDependencies struct {
	Repository repositories.Repository
	Publisher  events.EventPublisher
	Subscriber events.EventSubscriber
	Presence   *events.PresenceTracker
	Generator  *ai.Generator
	Tokens     *utils.TokenManager
	Logger     *slog.Logger
	Validator  *validator.Validator
}

type serviceManager struct {
	mu          sync.RWMutex
	initialized bool

	deps ServiceDependencies

	user         UserService
	channel      ChannelService
	realtime     RealtimeService
	assessment   AssessmentService
	generation   GenerationService
	distribution DistributionService
	evaluation   EvaluationService
	grading      GradingService
	file         FileService
	export       ExportService
}

func NewServiceManager(deps ServiceDependencies) ServiceManager {
	return &serviceManager{deps: deps}
}

func (m *serviceManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if m.deps.Repository == nil {
		return fmt.Errorf("service manager: repository is required")
	}
	if m.deps.Logger == nil {
		return fmt.Errorf("service manager: logger is required")
	}
	if m.deps.Validator == nil {
		return fmt.Errorf("service manager: validator is required")
	}

	d := m.deps
	m.user = NewUserService(d.Repository, d.Tokens, d.Presence, d.Logger, d.Validator)
	m.channel = NewChannelService(d.Repository, d.Publisher, d.Logger, d.Validator)
	m.realtime = NewRealtimeService(d.Repository, m.channel, d.Publisher, d.Subscriber, d.Presence, d.Logger, d.Validator)
	m.assessment = NewAssessmentService(d.Repository, d.Logger, d.Validator)
	m.generation = NewGenerationService(d.Repository, d.Generator, d.Logger, d.Validator)
	m.distribution = NewDistributionService(d.Repository, m.channel, d.Publisher, d.Logger, d.Validator)
	m.evaluation = NewEvaluationService(d.Repository, m.channel, d.Publisher, d.Logger, d.Validator)
	m.grading = NewGradingService(d.Repository, d.Publisher, d.Logger, d.Validator)
	m.file = NewFileService(d.Repository, m.channel, d.Publisher, d.Logger, d.Validator)
	m.export = NewExportService(d.Repository, m.channel, d.Logger)

	m.initialized = true
	m.deps.Logger.Info("services initialized")
	return nil
}

func (m *serviceManager) User() UserService                 { return m.get().user }
func (m *serviceManager) Channel() ChannelService           { return m.get().channel }
func (m *serviceManager) Realtime() RealtimeService         { return m.get().realtime }
func (m *serviceManager) Assessment() AssessmentService     { return m.get().assessment }
func (m *serviceManager) Generation() GenerationService     { return m.get().generation }
func (m *serviceManager) Distribution() DistributionService { return m.get().distribution }
func (m *serviceManager) Evaluation() EvaluationService     { return m.get().evaluation }
func (m *serviceManager) Grading() GradingService           { return m.get().grading }
func (m *serviceManager) File() FileService                 { return m.get().file }
func (m *serviceManager) Export() ExportService             { return m.get().export }

func (m *serviceManager) get() *serviceManager {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		panic("service manager used before Initialize")
	}
	return m
}

func (m *serviceManager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	return m.deps.Repository.Ping(ctx)
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return nil
	}
	m.initialized = false
	if m.deps.Publisher != nil {
		if err := m.deps.Publisher.Close(); err != nil {
			return fmt.Errorf("close event publisher: %w", err)
		}
	}
	return nil
}
