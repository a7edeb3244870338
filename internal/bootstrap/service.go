package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cirrostrats/devsetup/internal/branches/sync"
	"github.com/cirrostrats/devsetup/internal/editor"
	"github.com/cirrostrats/devsetup/internal/envfiles"
	"github.com/cirrostrats/devsetup/internal/repos/shared"
	"github.com/cirrostrats/devsetup/internal/ui"
)

const (
	// DefaultBranchNameConstant is used when no branch is requested.
	DefaultBranchNameConstant = "dev"
	// DefaultReminderConstant is printed when the setup completes.
	DefaultReminderConstant = "Check compose markdown file, verify appropriate env files are in entirety and spin according to needs - dev, prod or homelab is available."

	synchronizerMissingMessageConstant  = "repository synchronizer not configured"
	preparerMissingMessageConstant      = "environment file preparer not configured"
	prompterMissingMessageConstant      = "prompter not configured"
	repositoriesRequiredMessageConstant = "at least one repository must be configured"
	branchPromptFailureTemplateConstant = "failed to read branch: %w"
	editorPromptFailureTemplateConstant = "failed to read editor choice: %w"
	synchronizeFailureTemplateConstant  = "%s repository: %w"
	prepareFailureTemplateConstant      = "%s .env setup: %w"
	usingBranchNoticeTemplateConstant   = "Using branch: %s"
	environmentBannerNoticeConstant     = "*** .env setup: .env files will be created from .env.example (if present) and opened for editing."
	usingEditorNoticeTemplateConstant   = "  Using %s for editing."
	clonedNoticeTemplateConstant        = "%s repo cloned into %s on branch %s"
	existingNoticeTemplateConstant      = "%s repo already exists on this machine, now on branch %s"
	skipEnvironmentNoticeConstant       = "Skipping .env setup."
	logMessageSynchronizedConstant      = "repository synchronized"
	logMessagePreparedConstant          = "environment file prepared"
	logFieldRepositoryConstant          = "repository"
	logFieldFolderPathConstant          = "folder_path"
	logFieldBranchConstant              = "branch"
	logFieldClonedConstant              = "cloned"
	logFieldFallbackConstant            = "fallback_checkout"
	logFieldEnvironmentFileConstant     = "environment_file"
	logFieldSeedOutcomeConstant         = "seed_outcome"
	logFieldEditorOutcomeConstant       = "editor_outcome"
	logFieldSkippedConstant             = "skipped"
)

// ErrSynchronizerNotConfigured indicates the synchronizer dependency was missing.
var ErrSynchronizerNotConfigured = errors.New(synchronizerMissingMessageConstant)

// ErrPreparerNotConfigured indicates the environment file preparer dependency was missing.
var ErrPreparerNotConfigured = errors.New(preparerMissingMessageConstant)

// ErrPrompterNotConfigured indicates the prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(prompterMissingMessageConstant)

// ErrRepositoriesRequired indicates no repositories were configured.
var ErrRepositoriesRequired = errors.New(repositoriesRequiredMessageConstant)

// RepositorySynchronizer puts one repository on a tracking branch.
type RepositorySynchronizer interface {
	Synchronize(executionContext context.Context, options sync.Options) (sync.Result, error)
}

// EnvironmentPreparer seeds and edits one project's .env file.
type EnvironmentPreparer interface {
	Prepare(executionContext context.Context, options envfiles.Options) (envfiles.Result, error)
}

// Prompter asks for the values the user did not supply on the command line.
type Prompter interface {
	AskBranch(defaultBranch string) (string, error)
	AskEditor(defaultChoice editor.Choice) (editor.Choice, error)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Synchronizer RepositorySynchronizer
	Preparer     EnvironmentPreparer
	Prompter     Prompter
	Notices      *ui.NoticeWriter
	Logger       *zap.Logger
}

// Options configure one setup run.
type Options struct {
	// BranchName is prompted for when empty.
	BranchName    string
	DefaultBranch string
	// Editor is prompted for when empty.
	Editor        editor.Choice
	DefaultEditor editor.Choice
	RemoteName    string
	// WorkspaceDirectory holds the repository folders.
	WorkspaceDirectory   string
	Repositories         []shared.RepositoryDescriptor
	NonInteractive       bool
	SkipEnvironmentSetup bool
	Reminder             string
}

// Service runs the setup flow.
type Service struct {
	synchronizer RepositorySynchronizer
	preparer     EnvironmentPreparer
	prompter     Prompter
	notices      *ui.NoticeWriter
	logger       *zap.Logger
}

// NewService constructs a Service. Notices and logger are optional.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Synchronizer == nil {
		return nil, ErrSynchronizerNotConfigured
	}
	if dependencies.Preparer == nil {
		return nil, ErrPreparerNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}

	notices := dependencies.Notices
	if notices == nil {
		notices = ui.NewNoticeWriter(io.Discard)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		synchronizer: dependencies.Synchronizer,
		preparer:     dependencies.Preparer,
		prompter:     dependencies.Prompter,
		notices:      notices,
		logger:       logger,
	}, nil
}

// Run executes the setup. The first repository failure stops the run.
func (service *Service) Run(executionContext context.Context, options Options) error {
	if len(options.Repositories) == 0 {
		return ErrRepositoriesRequired
	}

	branchName, branchError := service.resolveBranch(options)
	if branchError != nil {
		return branchError
	}
	service.notices.Info(usingBranchNoticeTemplateConstant, branchName)

	for _, repository := range options.Repositories {
		if synchronizeError := service.synchronize(executionContext, options, repository, branchName); synchronizeError != nil {
			return synchronizeError
		}
	}

	if options.SkipEnvironmentSetup {
		service.notices.Info(skipEnvironmentNoticeConstant)
	} else if prepareError := service.prepareEnvironmentFiles(executionContext, options); prepareError != nil {
		return prepareError
	}

	service.notices.Reminder(resolveReminder(options.Reminder))
	return nil
}

func (service *Service) synchronize(executionContext context.Context, options Options, repository shared.RepositoryDescriptor, branchName string) error {
	result, synchronizeError := service.synchronizer.Synchronize(executionContext, sync.Options{
		RemoteURL:          repository.RemoteURL,
		FolderName:         repository.FolderName,
		BranchName:         branchName,
		RemoteName:         options.RemoteName,
		WorkspaceDirectory: options.WorkspaceDirectory,
	})
	if synchronizeError != nil {
		return fmt.Errorf(synchronizeFailureTemplateConstant, repository.Name, synchronizeError)
	}

	service.logger.Debug(logMessageSynchronizedConstant,
		zap.String(logFieldRepositoryConstant, repository.Name),
		zap.String(logFieldFolderPathConstant, result.FolderPath),
		zap.String(logFieldBranchConstant, result.BranchName),
		zap.Bool(logFieldClonedConstant, result.Cloned),
		zap.Bool(logFieldFallbackConstant, result.FallbackUsed),
	)
	if result.Cloned {
		service.notices.Info(clonedNoticeTemplateConstant, repository.Name, result.FolderPath, result.BranchName)
	} else {
		service.notices.Info(existingNoticeTemplateConstant, repository.Name, result.BranchName)
	}
	return nil
}

func (service *Service) prepareEnvironmentFiles(executionContext context.Context, options Options) error {
	service.notices.Info(environmentBannerNoticeConstant)
	service.notices.Blank()

	editorChoice, editorError := service.resolveEditor(options)
	if editorError != nil {
		return editorError
	}
	service.notices.Info(usingEditorNoticeTemplateConstant, editorChoice)
	service.notices.Blank()

	for _, repository := range options.Repositories {
		result, prepareError := service.preparer.Prepare(executionContext, envfiles.Options{
			ProjectDirectory: filepath.Join(options.WorkspaceDirectory, repository.FolderName),
			ProjectName:      repository.Name,
			Editor:           editorChoice,
			NonInteractive:   options.NonInteractive,
		})
		if prepareError != nil {
			return fmt.Errorf(prepareFailureTemplateConstant, repository.Name, prepareError)
		}
		service.logger.Debug(logMessagePreparedConstant,
			zap.String(logFieldRepositoryConstant, repository.Name),
			zap.String(logFieldEnvironmentFileConstant, result.EnvironmentFilePath),
			zap.Bool(logFieldSkippedConstant, result.Skipped),
			zap.String(logFieldSeedOutcomeConstant, string(result.SeedOutcome)),
			zap.String(logFieldEditorOutcomeConstant, string(result.EditorOutcome)),
		)
	}
	return nil
}

func (service *Service) resolveBranch(options Options) (string, error) {
	if trimmedBranchName := strings.TrimSpace(options.BranchName); len(trimmedBranchName) > 0 {
		return trimmedBranchName, nil
	}

	defaultBranch := strings.TrimSpace(options.DefaultBranch)
	if len(defaultBranch) == 0 {
		defaultBranch = DefaultBranchNameConstant
	}
	if options.NonInteractive {
		return defaultBranch, nil
	}

	branchName, promptError := service.prompter.AskBranch(defaultBranch)
	if promptError != nil {
		return "", fmt.Errorf(branchPromptFailureTemplateConstant, promptError)
	}
	return branchName, nil
}

func (service *Service) resolveEditor(options Options) (editor.Choice, error) {
	if len(options.Editor) > 0 {
		return options.Editor, nil
	}

	defaultChoice := options.DefaultEditor
	if len(defaultChoice) == 0 {
		defaultChoice = editor.DefaultChoice
	}
	if options.NonInteractive {
		return defaultChoice, nil
	}

	editorChoice, promptError := service.prompter.AskEditor(defaultChoice)
	if promptError != nil {
		return "", fmt.Errorf(editorPromptFailureTemplateConstant, promptError)
	}
	return editorChoice, nil
}

func resolveReminder(reminder string) string {
	if trimmedReminder := strings.TrimSpace(reminder); len(trimmedReminder) > 0 {
		return trimmedReminder
	}
	return DefaultReminderConstant
}
