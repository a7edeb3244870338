package envfiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cirrostrats/devsetup/internal/editor"
	"github.com/cirrostrats/devsetup/internal/repos/shared"
	"github.com/cirrostrats/devsetup/internal/ui"
)

const (
	// EnvironmentFileNameConstant is the name of the seeded environment file.
	EnvironmentFileNameConstant = ".env"
	// TemplateFileNameConstant is the name of the template the environment file is seeded from.
	TemplateFileNameConstant = ".env.example"

	fileSystemMissingMessageConstant        = "filesystem not configured"
	launcherMissingMessageConstant          = "editor launcher not configured"
	prompterMissingMessageConstant          = "acknowledgement prompter not configured"
	projectDirectoryRequiredMessageConstant = "project directory must be provided"
	directoryNotFoundMessageConstant        = "project directory not found"
	directoryNotFoundTemplateConstant       = "%w: %s"
	inspectFailureTemplateConstant          = "failed to inspect %s: %w"
	copyFailureTemplateConstant             = "failed to copy %s to %s: %w"
	createFailureTemplateConstant           = "failed to create %s: %w"
	editorFailureTemplateConstant           = "failed to open %s in %s: %w"
	acknowledgementFailureTemplateConstant  = "failed to read acknowledgement: %w"

	skippedDirectoryNoticeTemplateConstant = "  Skipping %s .env setup: directory %s not found."
	copiedNoticeTemplateConstant           = "  Created %s from .env.example"
	existingNoticeTemplateConstant         = "  %s already exists (not overwriting)."
	createdEmptyNoticeTemplateConstant     = "  Created empty %s (no .env.example in %s)."
	openPromptTemplateConstant             = "Press Enter to open %s .env in your editor for editing..."
	donePromptTemplateConstant             = "Press Enter when done editing %s .env to continue..."
	editorNotFoundNoticeTemplateConstant   = "  Editor '%s' not found. Edit manually: %s"
	editorFailedNoticeTemplateConstant     = "  Editor exited with an error. Edit manually if needed: %s"
	editorSkippedNoticeTemplateConstant    = "  Not opening an editor in a non-interactive session. Edit manually: %s"
)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrLauncherNotConfigured indicates the editor launcher dependency was missing.
var ErrLauncherNotConfigured = errors.New(launcherMissingMessageConstant)

// ErrPrompterNotConfigured indicates the acknowledgement prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrProjectDirectoryRequired indicates the project directory option was empty.
var ErrProjectDirectoryRequired = errors.New(projectDirectoryRequiredMessageConstant)

// ErrDirectoryNotFound indicates the project directory does not exist.
var ErrDirectoryNotFound = errors.New(directoryNotFoundMessageConstant)

// SeedOutcome describes what seeding did to the environment file.
type SeedOutcome string

// Seed outcomes.
const (
	SeedOutcomeCopied       SeedOutcome = SeedOutcome("copied")
	SeedOutcomeCreatedEmpty SeedOutcome = SeedOutcome("created_empty")
	SeedOutcomeExisting     SeedOutcome = SeedOutcome("existing")
)

// EditorOutcome describes how the editing step ended.
type EditorOutcome string

// Editor outcomes.
const (
	EditorOutcomeNone     EditorOutcome = EditorOutcome("")
	EditorOutcomeEdited   EditorOutcome = EditorOutcome("edited")
	EditorOutcomeNotFound EditorOutcome = EditorOutcome("not_found")
	EditorOutcomeFailed   EditorOutcome = EditorOutcome("failed")
	EditorOutcomeSkipped  EditorOutcome = EditorOutcome("skipped")
)

// EditorLauncher opens a file in a terminal editor.
type EditorLauncher interface {
	Open(executionContext context.Context, choice editor.Choice, filePath string) error
}

// AcknowledgementPrompter pauses until the user confirms.
type AcknowledgementPrompter interface {
	WaitForAcknowledgement(message string) error
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	FileSystem shared.FileSystem
	Launcher   EditorLauncher
	Prompter   AcknowledgementPrompter
	Notices    *ui.NoticeWriter
}

// Options configure the preparation of one project.
type Options struct {
	ProjectDirectory string
	// ProjectName is the human-readable name used in notices.
	ProjectName string
	Editor      editor.Choice
	// NonInteractive skips the acknowledgement pauses and the editor.
	NonInteractive bool
}

// SeedResult captures the outcome of seeding.
type SeedResult struct {
	EnvironmentFilePath string
	Outcome             SeedOutcome
}

// Result captures the outcome of a preparation.
type Result struct {
	EnvironmentFilePath string
	Skipped             bool
	SeedOutcome         SeedOutcome
	EditorOutcome       EditorOutcome
}

// Service prepares .env files.
type Service struct {
	fileSystem shared.FileSystem
	launcher   EditorLauncher
	prompter   AcknowledgementPrompter
	notices    *ui.NoticeWriter
}

// NewService constructs a Service from the provided dependencies. Notices are optional.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.Launcher == nil {
		return nil, ErrLauncherNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	notices := dependencies.Notices
	if notices == nil {
		notices = ui.NewNoticeWriter(io.Discard)
	}
	return &Service{
		fileSystem: dependencies.FileSystem,
		launcher:   dependencies.Launcher,
		prompter:   dependencies.Prompter,
		notices:    notices,
	}, nil
}

// Seed ensures <directory>/.env exists. It copies .env.example when present and
// creates an empty file otherwise. An existing .env is never modified.
func (service *Service) Seed(directory string) (SeedResult, error) {
	trimmedDirectory := strings.TrimSpace(directory)
	if len(trimmedDirectory) == 0 {
		return SeedResult{}, ErrProjectDirectoryRequired
	}

	directoryPresent, inspectionError := service.directoryExists(trimmedDirectory)
	if inspectionError != nil {
		return SeedResult{}, inspectionError
	}
	if !directoryPresent {
		return SeedResult{}, fmt.Errorf(directoryNotFoundTemplateConstant, ErrDirectoryNotFound, trimmedDirectory)
	}

	environmentFilePath := filepath.Join(trimmedDirectory, EnvironmentFileNameConstant)
	templateFilePath := filepath.Join(trimmedDirectory, TemplateFileNameConstant)

	environmentFilePresent, inspectionError := service.pathExists(environmentFilePath)
	if inspectionError != nil {
		return SeedResult{}, inspectionError
	}
	if environmentFilePresent {
		return SeedResult{EnvironmentFilePath: environmentFilePath, Outcome: SeedOutcomeExisting}, nil
	}

	templatePresent, inspectionError := service.pathExists(templateFilePath)
	if inspectionError != nil {
		return SeedResult{}, inspectionError
	}
	if templatePresent {
		if copyError := service.fileSystem.CopyFile(templateFilePath, environmentFilePath); copyError != nil {
			return SeedResult{}, fmt.Errorf(copyFailureTemplateConstant, templateFilePath, environmentFilePath, copyError)
		}
		return SeedResult{EnvironmentFilePath: environmentFilePath, Outcome: SeedOutcomeCopied}, nil
	}

	if createError := service.fileSystem.CreateEmptyFile(environmentFilePath); createError != nil {
		return SeedResult{}, fmt.Errorf(createFailureTemplateConstant, environmentFilePath, createError)
	}
	return SeedResult{EnvironmentFilePath: environmentFilePath, Outcome: SeedOutcomeCreatedEmpty}, nil
}

// Prepare seeds the project's .env file and lets the user edit it.
// A missing project directory is reported and skipped.
func (service *Service) Prepare(executionContext context.Context, options Options) (Result, error) {
	projectName := strings.TrimSpace(options.ProjectName)
	if len(projectName) == 0 {
		projectName = filepath.Base(options.ProjectDirectory)
	}

	seedResult, seedError := service.Seed(options.ProjectDirectory)
	if errors.Is(seedError, ErrDirectoryNotFound) {
		service.notices.Warning(skippedDirectoryNoticeTemplateConstant, projectName, options.ProjectDirectory)
		return Result{Skipped: true}, nil
	}
	if seedError != nil {
		return Result{}, seedError
	}

	result := Result{EnvironmentFilePath: seedResult.EnvironmentFilePath, SeedOutcome: seedResult.Outcome}
	service.reportSeed(seedResult, options.ProjectDirectory)

	if options.NonInteractive {
		service.notices.Warning(editorSkippedNoticeTemplateConstant, seedResult.EnvironmentFilePath)
		result.EditorOutcome = EditorOutcomeSkipped
		service.notices.Blank()
		return result, nil
	}

	if acknowledgementError := service.prompter.WaitForAcknowledgement(fmt.Sprintf(openPromptTemplateConstant, projectName)); acknowledgementError != nil {
		return Result{}, fmt.Errorf(acknowledgementFailureTemplateConstant, acknowledgementError)
	}

	editorOutcome, editorError := service.edit(executionContext, options.Editor, seedResult.EnvironmentFilePath)
	if editorError != nil {
		return Result{}, editorError
	}
	result.EditorOutcome = editorOutcome

	if acknowledgementError := service.prompter.WaitForAcknowledgement(fmt.Sprintf(donePromptTemplateConstant, projectName)); acknowledgementError != nil {
		return Result{}, fmt.Errorf(acknowledgementFailureTemplateConstant, acknowledgementError)
	}
	service.notices.Blank()

	return result, nil
}

func (service *Service) edit(executionContext context.Context, choice editor.Choice, environmentFilePath string) (EditorOutcome, error) {
	openError := service.launcher.Open(executionContext, choice, environmentFilePath)
	switch {
	case openError == nil:
		return EditorOutcomeEdited, nil
	case errors.Is(openError, editor.ErrEditorNotFound):
		service.notices.Warning(editorNotFoundNoticeTemplateConstant, choice, environmentFilePath)
		return EditorOutcomeNotFound, nil
	case errors.Is(openError, editor.ErrEditorFailed):
		service.notices.Warning(editorFailedNoticeTemplateConstant, environmentFilePath)
		return EditorOutcomeFailed, nil
	default:
		return EditorOutcomeNone, fmt.Errorf(editorFailureTemplateConstant, environmentFilePath, choice, openError)
	}
}

func (service *Service) reportSeed(seedResult SeedResult, projectDirectory string) {
	switch seedResult.Outcome {
	case SeedOutcomeCopied:
		service.notices.Info(copiedNoticeTemplateConstant, seedResult.EnvironmentFilePath)
	case SeedOutcomeExisting:
		service.notices.Info(existingNoticeTemplateConstant, seedResult.EnvironmentFilePath)
	case SeedOutcomeCreatedEmpty:
		service.notices.Info(createdEmptyNoticeTemplateConstant, seedResult.EnvironmentFilePath, projectDirectory)
	}
}

func (service *Service) directoryExists(directory string) (bool, error) {
	directoryInfo, statError := service.fileSystem.Stat(directory)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(inspectFailureTemplateConstant, directory, statError)
	}
	return directoryInfo.IsDir(), nil
}

func (service *Service) pathExists(path string) (bool, error) {
	if _, statError := service.fileSystem.Stat(path); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(inspectFailureTemplateConstant, path, statError)
	}
	return true, nil
}
