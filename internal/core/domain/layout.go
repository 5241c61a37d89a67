package domain

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "importmaps.yaml"

	// EnvFileName is the optional dotenv file loaded next to the configuration.
	EnvFileName = ".env"

	// DefaultOutDir is the default build output directory.
	DefaultOutDir = "dist"

	// AssetsDir is the output subdirectory for emitted chunks.
	AssetsDir = "assets"

	// DefaultImportMapFileName is the file base name used when outputAsFile is true.
	DefaultImportMapFileName = "import-map"

	// DefaultServerHost is the default dev server bind address.
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default dev server port.
	DefaultServerPort = 5173

	// EnvironmentClient is the host environment name for browser builds.
	EnvironmentClient = "client"

	// EnvironmentSSR is the host environment name for server-side rendering builds.
	EnvironmentSSR = "ssr"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
