package ports

import "go.nomake.dev/nomake/internal/core/domain"

// ConfigLoader reads a rule-base file and returns its rules.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the rule base at path and returns its rules in
	// declaration order.
	Load(path string) ([]*domain.Rule, error)
}
