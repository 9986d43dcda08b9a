// Package config loads the vcproj2cmake.yaml settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/vcproj2cmake/convert"
	"github.com/willibrandon/vcproj2cmake/generator"
)

// SettingsFileName is looked up in the master directory.
const SettingsFileName = "vcproj2cmake.yaml"

// Settings mirrors the settings file. Unset keys keep their defaults.
type Settings struct {
	ConfigDirLocal             string `yaml:"config_dir_local"`
	ModulePathRoot             string `yaml:"module_path_root"`
	ValidateFiles              bool   `yaml:"validate_files"`
	AbortOnError               bool   `yaml:"abort_on_error"`
	CommentsLevel              int    `yaml:"comments_level"`
	IndentStep                 int    `yaml:"indent_step"`
	CreatePermissions          string `yaml:"create_permissions"`
	AuthoritativeConfiguration string `yaml:"authoritative_configuration"`
	ScriptLocation             string `yaml:"script_location"`
	Jobs                       int    `yaml:"jobs"`
}

// Defaults returns the settings used when no file is present.
func Defaults() *Settings {
	return &Settings{
		ConfigDirLocal:    generator.DefaultConfigDirLocal,
		ModulePathRoot:    generator.DefaultModulePathRoot,
		ValidateFiles:     true,
		AbortOnError:      true,
		CommentsLevel:     generator.DefaultCommentsLevel,
		IndentStep:        generator.DefaultIndentStep,
		CreatePermissions: "0644",
	}
}

// Parse reads settings from r over the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Settings, error) {
	s := Defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return s, nil
}

// Find loads explicit if given, otherwise vcproj2cmake.yaml of masterDir
// when it exists, otherwise the defaults.
func Find(explicit, masterDir string) (*Settings, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path := filepath.Join(masterDir, SettingsFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return Load(path)
}

func (s *Settings) validate() error {
	if s.CommentsLevel < 0 || s.CommentsLevel > 4 {
		return fmt.Errorf("comments_level must be within 0..4, got %d", s.CommentsLevel)
	}
	if s.IndentStep < 0 {
		return fmt.Errorf("indent_step must not be negative, got %d", s.IndentStep)
	}
	if s.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", s.Jobs)
	}
	if _, err := s.Permissions(); err != nil {
		return err
	}
	return nil
}

// Permissions parses create_permissions as an octal file mode.
func (s *Settings) Permissions() (fs.FileMode, error) {
	if s.CreatePermissions == "" {
		return 0, nil
	}
	mode, err := strconv.ParseUint(s.CreatePermissions, 8, 32)
	if err != nil || mode > 0o777 {
		return 0, fmt.Errorf("create_permissions must be an octal mode such as 0644, got %q", s.CreatePermissions)
	}
	return fs.FileMode(mode), nil
}

// Apply copies the settings into opts.
func (s *Settings) Apply(opts *convert.Options) {
	perm, _ := s.Permissions()
	opts.ConfigDirLocal = s.ConfigDirLocal
	opts.ModulePathRoot = s.ModulePathRoot
	opts.ValidateFiles = s.ValidateFiles
	opts.AbortOnError = s.AbortOnError
	opts.CommentsLevel = s.CommentsLevel
	opts.IndentStep = s.IndentStep
	opts.Perm = perm
	opts.Authoritative = s.AuthoritativeConfiguration
	opts.ScriptLocation = s.ScriptLocation
	opts.Jobs = s.Jobs
}
