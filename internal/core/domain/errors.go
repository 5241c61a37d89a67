package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidSharedDependency is returned when a shared dependency entry is malformed.
	ErrInvalidSharedDependency = zerr.New("invalid shared dependency")

	// ErrNoSharedDependencies is returned when the configuration declares no shared dependencies.
	ErrNoSharedDependencies = zerr.New("no shared dependencies declared")

	// ErrInvalidIntegrity is returned when an integrity value is not a supported digest algorithm.
	ErrInvalidIntegrity = zerr.New("invalid integrity algorithm, expected 'sha256', 'sha384' or 'sha512'")

	// ErrInvalidOutputFile is returned when the import map file name is not a plain file name.
	ErrInvalidOutputFile = zerr.New("invalid import map file name")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find importmaps.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrEnvFileLoadFailed is returned when the .env file next to the config cannot be loaded.
	ErrEnvFileLoadFailed = zerr.New("failed to load env file")

	// ErrDependencyUnresolved is returned when a shared dependency entry cannot be resolved by the host.
	ErrDependencyUnresolved = zerr.New("shared dependency could not be resolved")

	// ErrModuleIntrospectionFailed is returned when the host cannot analyze a module's exports.
	ErrModuleIntrospectionFailed = zerr.New("failed to analyze module exports")

	// ErrPhaseOrder is returned when a pipeline hook is dispatched out of lifecycle order.
	ErrPhaseOrder = zerr.New("pipeline phase dispatched out of order")

	// ErrBuildFailed is returned when the host bundler reports errors.
	ErrBuildFailed = zerr.New("build failed")

	// ErrOutputWriteFailed is returned when a build output cannot be written to disk.
	ErrOutputWriteFailed = zerr.New("failed to write build output")

	// ErrHTMLParseFailed is returned when an HTML document cannot be parsed for injection.
	ErrHTMLParseFailed = zerr.New("failed to parse html document")

	// ErrImportMapMarshalFailed is returned when the import map cannot be serialized.
	ErrImportMapMarshalFailed = zerr.New("failed to marshal import map")

	// ErrGraphVersionFailed is returned when the dependency graph version cannot be computed.
	ErrGraphVersionFailed = zerr.New("failed to compute dependency graph version")

	// ErrWatcherFailed is returned when the dependency manifests cannot be watched.
	ErrWatcherFailed = zerr.New("failed to watch dependency manifests")

	// ErrServerFailed is returned when the dev server stops unexpectedly.
	ErrServerFailed = zerr.New("dev server failed")
)
