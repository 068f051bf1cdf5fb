package repositories

import "context"

// Repository aggregates all entity repositories behind one surface.
type Repository interface {
	User() UserRepository
	Channel() ChannelRepository
	Assessment() AssessmentRepository
	Assignment() AssignmentRepository
	Result() ResultRepository
	Distribution() DistributionRepository
	File() FileRepository

	// WithTransaction runs fn against a repository bound to one database
	// transaction; returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
