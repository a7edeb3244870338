package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cirrostrats/devsetup/internal/editor"
	"github.com/cirrostrats/devsetup/internal/repos/shared"
	pathutils "github.com/cirrostrats/devsetup/internal/utils/path"
)

const (
	initializationScopeLocalConstant             = "local"
	initializationScopeUserConstant              = "user"
	userConfigurationDirectoryConstant           = "~/.devsetup"
	configurationFileNameConstant                = configurationNameConstant + "." + configurationTypeConstant
	configurationDirectoryPermissionsConstant    = fs.FileMode(0o755)
	configurationFilePermissionsConstant         = fs.FileMode(0o644)
	unsupportedScopeTemplateConstant             = "unsupported initialization scope %q"
	configurationExistsTemplateConstant          = "%w: %s (use --force to overwrite)"
	configurationEncodeErrorTemplateConstant     = "failed to encode configuration: %w"
	configurationWriteErrorTemplateConstant      = "failed to write configuration %s: %w"
	repositoryConfigurationErrorTemplateConstant = "invalid repository configuration #%d: %w"
	defaultEditorErrorTemplateConstant           = "invalid setup.default_editor: %w"
	configurationExistsMessageConstant           = "configuration file already exists"
	configurationWrittenTemplateConstant         = "Wrote configuration to %s"
)

// ErrConfigurationExists indicates --init would overwrite an existing file without --force.
var ErrConfigurationExists = errors.New(configurationExistsMessageConstant)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common" yaml:"common"`
	Setup  SetupConfiguration             `mapstructure:"setup" yaml:"setup"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// SetupConfiguration stores the defaults of the setup flow.
type SetupConfiguration struct {
	DefaultBranch  string                    `mapstructure:"default_branch" yaml:"default_branch"`
	DefaultEditor  string                    `mapstructure:"default_editor" yaml:"default_editor"`
	Remote         string                    `mapstructure:"remote" yaml:"remote"`
	Workspace      string                    `mapstructure:"workspace" yaml:"workspace"`
	CommandTimeout time.Duration             `mapstructure:"command_timeout" yaml:"command_timeout"`
	Reminder       string                    `mapstructure:"reminder" yaml:"reminder"`
	Repositories   []RepositoryConfiguration `mapstructure:"repositories" yaml:"repositories"`
}

// RepositoryConfiguration describes one managed repository. Folder defaults to the remote's name.
type RepositoryConfiguration struct {
	Name      string `mapstructure:"name" yaml:"name"`
	RemoteURL string `mapstructure:"remote_url" yaml:"remote_url"`
	Folder    string `mapstructure:"folder" yaml:"folder,omitempty"`
}

// RepositoryDescriptors validates the configured repositories.
func (configuration SetupConfiguration) RepositoryDescriptors() ([]shared.RepositoryDescriptor, error) {
	descriptors := make([]shared.RepositoryDescriptor, 0, len(configuration.Repositories))
	for repositoryIndex, repository := range configuration.Repositories {
		descriptor, descriptorError := shared.NewRepositoryDescriptor(repository.Name, repository.RemoteURL, repository.Folder)
		if descriptorError != nil {
			return nil, fmt.Errorf(repositoryConfigurationErrorTemplateConstant, repositoryIndex+1, descriptorError)
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors, nil
}

// DefaultEditorChoice parses the configured default editor. Empty selects nano.
func (configuration SetupConfiguration) DefaultEditorChoice() (editor.Choice, error) {
	if len(strings.TrimSpace(configuration.DefaultEditor)) == 0 {
		return editor.DefaultChoice, nil
	}
	choice, parseError := editor.ParseChoice(configuration.DefaultEditor)
	if parseError != nil {
		return "", fmt.Errorf(defaultEditorErrorTemplateConstant, parseError)
	}
	return choice, nil
}

// configurationWriter persists the effective configuration for --init.
type configurationWriter struct {
	homeExpander     *pathutils.HomeExpander
	workingDirectory string
}

func (writer configurationWriter) targetPath(scope string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case initializationScopeLocalConstant:
		return filepath.Join(writer.workingDirectory, configurationFileNameConstant), nil
	case initializationScopeUserConstant:
		return filepath.Join(writer.homeExpander.Expand(userConfigurationDirectoryConstant), configurationFileNameConstant), nil
	default:
		return "", fmt.Errorf(unsupportedScopeTemplateConstant, scope)
	}
}

// Write encodes the configuration as YAML into the scope's file and returns its path.
func (writer configurationWriter) Write(configuration ApplicationConfiguration, scope string, force bool) (string, error) {
	targetPath, targetError := writer.targetPath(scope)
	if targetError != nil {
		return "", targetError
	}

	if _, statError := os.Stat(targetPath); statError == nil && !force {
		return "", fmt.Errorf(configurationExistsTemplateConstant, ErrConfigurationExists, targetPath)
	}

	encodedConfiguration, encodeError := yaml.Marshal(configuration)
	if encodeError != nil {
		return "", fmt.Errorf(configurationEncodeErrorTemplateConstant, encodeError)
	}

	if mkdirError := os.MkdirAll(filepath.Dir(targetPath), configurationDirectoryPermissionsConstant); mkdirError != nil {
		return "", fmt.Errorf(configurationWriteErrorTemplateConstant, targetPath, mkdirError)
	}
	if writeError := os.WriteFile(targetPath, encodedConfiguration, configurationFilePermissionsConstant); writeError != nil {
		return "", fmt.Errorf(configurationWriteErrorTemplateConstant, targetPath, writeError)
	}
	return targetPath, nil
}
