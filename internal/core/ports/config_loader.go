package ports

import "go.trai.ch/importmaps/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the configuration starting at the given working directory and returns
	// validated options with every default applied. A path naming a file is read directly.
	Load(cwd string) (domain.Options, error)
}
