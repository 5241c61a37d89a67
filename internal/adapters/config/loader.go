// Package config provides the configuration loader for importmaps.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	// Path overrides discovery when set. Relative paths are resolved against the working directory.
	Path string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds importmaps.yaml at or above cwd and returns validated options.
// When cwd names a regular file, that file is used as the configuration.
func (l *Loader) Load(cwd string) (domain.Options, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return domain.Options{}, err
	}

	env, err := readEnvFile(filepath.Join(filepath.Dir(configPath), domain.EnvFileName))
	if err != nil {
		return domain.Options{}, err
	}

	var file Configfile
	if err := readAndUnmarshalYAML(configPath, env, &file); err != nil {
		return domain.Options{}, zerr.With(err, "path", configPath)
	}

	opts := toOptions(configPath, &file)
	if opts.SSR && l.Logger != nil {
		ports.Scoped(l.Logger, "importmaps").Warn("ssr is enabled, shared dependencies are bundled instead of virtualized")
	}
	if err := opts.Validate(); err != nil {
		return domain.Options{}, zerr.With(err, "path", configPath)
	}
	return opts, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	if l.Path != "" {
		path := l.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return "", zerr.With(domain.ErrConfigNotFound, "path", path)
		}
		return filepath.Clean(path), nil
	}

	if info, err := os.Stat(cwd); err == nil && info.Mode().IsRegular() {
		return filepath.Abs(cwd)
	}

	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func toOptions(configPath string, file *Configfile) domain.Options {
	opts := domain.DefaultOptions()
	opts.Root = resolveRoot(configPath, file.Root)
	if file.OutDir != "" {
		opts.OutDir = file.OutDir
	}
	opts.Input = file.Input
	opts.Alias = resolveAlias(opts.Root, file.Alias)
	opts.SSR = file.SSR
	opts.SharedOutDir = file.SharedOutDir
	opts.Log = file.Log

	if file.Integrity != nil {
		opts.Integrity = file.Integrity.Mode
	}
	if file.InjectImportMapsToHTML != nil {
		opts.InjectImportMapsToHTML = *file.InjectImportMapsToHTML
	}
	if file.OutputAsFile != nil {
		opts.OutputAsFile = file.OutputAsFile.Name
	}
	if file.Server.Host != "" {
		opts.Server.Host = file.Server.Host
	}
	if file.Server.Port != 0 {
		opts.Server.Port = file.Server.Port
	}

	opts.Shared = make([]domain.SharedDependency, 0, len(file.Shared))
	for _, dto := range file.Shared {
		opts.Shared = append(opts.Shared, dto.Declaration())
	}
	return opts
}

// resolveAlias anchors relative alias targets at root.
func resolveAlias(root string, alias map[string]string) map[string]string {
	if len(alias) == 0 {
		return nil
	}
	out := make(map[string]string, len(alias))
	for key, target := range alias {
		if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") {
			target = filepath.Join(root, filepath.FromSlash(target))
		}
		out[key] = target
	}
	return out
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readEnvFile reads the optional dotenv file without touching the process environment.
func readEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileLoadFailed.Error()), "path", path)
	}
	return env, nil
}

// expandEnv replaces ${VAR} references. The process environment wins over the dotenv file.
func expandEnv(data []byte, env map[string]string) []byte {
	return envReference.ReplaceAllFunc(data, func(match []byte) []byte {
		name := string(envReference.FindSubmatch(match)[1])
		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		return []byte(env[name])
	})
}

func readAndUnmarshalYAML[T any](configPath string, env map[string]string, target *T) error {
	// #nosec G304 -- configPath is discovered or provided by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(expandEnv(configFile, env), target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}
	return nil
}
