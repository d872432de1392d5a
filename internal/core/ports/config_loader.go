package ports

import "go.trai.ch/mill/internal/core/domain"

// ConfigLoader loads the static build plan.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the plan definition from the given working directory and
	// returns a validated Plan. Conditions in the definition are defaults;
	// the scheduler's policy may tighten them from the build record.
	Load(cwd string) (*domain.Plan, error)
}
