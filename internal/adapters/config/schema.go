package config

import (
	"strconv"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Configfile represents the structure of the importmaps.yaml configuration file.
type Configfile struct {
	Root                   string            `yaml:"root"`
	OutDir                 string            `yaml:"outDir"`
	Input                  []string          `yaml:"input"`
	Alias                  map[string]string `yaml:"alias"`
	SSR                    bool              `yaml:"ssr"`
	Shared                 []SharedDTO       `yaml:"shared"`
	SharedOutDir           string            `yaml:"sharedOutDir"`
	Integrity              *IntegrityDTO     `yaml:"integrity"`
	Log                    bool              `yaml:"log"`
	InjectImportMapsToHTML *bool             `yaml:"injectImportMapsToHtml"`
	OutputAsFile           *OutputFileDTO    `yaml:"outputAsFile"`
	Server                 ServerDTO         `yaml:"server"`
}

// ServerDTO configures the dev server.
type ServerDTO struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SharedDTO is one shared dependency entry: a bare string or an object.
type SharedDTO struct {
	Name      string        `yaml:"name"`
	Entry     string        `yaml:"entry"`
	Integrity *IntegrityDTO `yaml:"integrity"`
}

// UnmarshalYAML accepts both the "react" and the {name, entry, integrity} form.
func (s *SharedDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Name = node.Value
		s.Entry = node.Value
		return nil
	}

	type plain SharedDTO
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = SharedDTO(p)
	return nil
}

// Declaration converts the entry to its domain form.
func (s SharedDTO) Declaration() domain.SharedDependency {
	decl := domain.SharedDependency{Name: s.Name, Entry: s.Entry}
	if s.Integrity != nil {
		decl.Integrity = s.Integrity.Mode
		decl.IntegritySet = true
	}
	return decl
}

// IntegrityDTO is an integrity setting: a boolean switch or an algorithm name.
type IntegrityDTO struct {
	Mode domain.IntegrityMode
}

// UnmarshalYAML accepts true, false, "sha256", "sha384" and "sha512".
func (i *IntegrityDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return zerr.With(domain.ErrInvalidIntegrity, "line", node.Line)
	}
	mode, err := domain.ParseIntegrity(node.Value)
	if err != nil {
		return zerr.With(err, "line", node.Line)
	}
	i.Mode = mode
	return nil
}

// OutputFileDTO is the outputAsFile setting: a boolean switch or a file name.
type OutputFileDTO struct {
	Name string
}

// UnmarshalYAML maps true to the default file name and false to a disabled sink.
func (o *OutputFileDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return zerr.With(domain.ErrInvalidOutputFile, "line", node.Line)
	}
	if node.Tag == "!!bool" {
		enabled, err := strconv.ParseBool(node.Value)
		if err != nil {
			return zerr.With(domain.ErrInvalidOutputFile, "line", node.Line)
		}
		if enabled {
			o.Name = domain.DefaultImportMapFileName
		}
		return nil
	}
	o.Name = node.Value
	return nil
}
