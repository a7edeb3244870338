package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cirrostrats/devsetup/internal/execshell"
	"github.com/cirrostrats/devsetup/internal/repos/shared"
)

const (
	remoteURLRequiredMessageConstant        = "remote url must be provided"
	folderNameRequiredMessageConstant       = "repository folder must be provided"
	branchNameRequiredMessageConstant       = "branch name must be provided"
	gitExecutorMissingMessageConstant       = "git executor not configured"
	fileSystemMissingMessageConstant        = "filesystem not configured"
	folderNotDirectoryMessageConstant       = "repository path exists but is not a directory"
	folderInspectionFailureTemplateConstant = "failed to inspect %s: %w"
	folderNotDirectoryTemplateConstant      = "%w: %s"
	gitCloneFailureTemplateConstant         = "failed to clone %s into %s: %w"
	gitFetchFailureTemplateConstant         = "failed to fetch %s in %s: %w"
	gitTrackFailureTemplateConstant         = "failed to create local branch tracking %s in %s: %w"
	gitCheckoutFailureTemplateConstant      = "failed to switch %s to branch %s: %w"
	gitPullFailureTemplateConstant          = "failed to pull %s from %s in %s: %w"
	trackingReferenceTemplateConstant       = "%s/%s"
	branchAlreadyExistsMarkerConstant       = "already exists"
	gitCloneSubcommandConstant              = "clone"
	gitFetchSubcommandConstant              = "fetch"
	gitCheckoutSubcommandConstant           = "checkout"
	gitTrackFlagConstant                    = "-t"
	gitPullSubcommandConstant               = "pull"
)

// ErrRemoteURLRequired indicates the remote url option was empty.
var ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)

// ErrFolderNameRequired indicates the folder name option was empty.
var ErrFolderNameRequired = errors.New(folderNameRequiredMessageConstant)

// ErrBranchNameRequired indicates the branch name option was empty.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrFolderNotDirectory indicates the repository folder is occupied by a file.
var ErrFolderNotDirectory = errors.New(folderNotDirectoryMessageConstant)

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor shared.GitExecutor
	FileSystem  shared.FileSystem
}

// Options configure a synchronization.
type Options struct {
	RemoteURL  string
	FolderName string
	BranchName string
	// RemoteName defaults to origin.
	RemoteName string
	// WorkspaceDirectory holds the repository folder. Empty means the process working directory.
	WorkspaceDirectory string
}

// Result captures the outcome of a synchronization.
type Result struct {
	FolderPath   string
	BranchName   string
	Cloned       bool
	FallbackUsed bool
}

// Service clones repositories and puts them on tracking branches.
type Service struct {
	executor   shared.GitExecutor
	fileSystem shared.FileSystem
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &Service{executor: dependencies.GitExecutor, fileSystem: dependencies.FileSystem}, nil
}

// Synchronize clones the repository when its folder is absent, fetches it otherwise,
// and leaves the folder on a local branch tracking <remote>/<branch>.
// Every git command runs with an explicit working directory; the process
// working directory is never changed.
func (service *Service) Synchronize(executionContext context.Context, options Options) (Result, error) {
	trimmedRemoteURL := strings.TrimSpace(options.RemoteURL)
	if len(trimmedRemoteURL) == 0 {
		return Result{}, ErrRemoteURLRequired
	}

	trimmedFolderName := strings.TrimSpace(options.FolderName)
	if len(trimmedFolderName) == 0 {
		return Result{}, ErrFolderNameRequired
	}

	trimmedBranchName := strings.TrimSpace(options.BranchName)
	if len(trimmedBranchName) == 0 {
		return Result{}, ErrBranchNameRequired
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = shared.OriginRemoteNameConstant
	}

	workspaceDirectory := strings.TrimSpace(options.WorkspaceDirectory)
	folderPath := filepath.Join(workspaceDirectory, trimmedFolderName)

	folderExists, inspectionError := service.folderExists(folderPath)
	if inspectionError != nil {
		return Result{}, inspectionError
	}

	result := Result{FolderPath: folderPath, BranchName: trimmedBranchName}

	if folderExists {
		if _, fetchError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{gitFetchSubcommandConstant, remoteName},
			WorkingDirectory: folderPath,
		}); fetchError != nil {
			return Result{}, fmt.Errorf(gitFetchFailureTemplateConstant, remoteName, folderPath, fetchError)
		}
	} else {
		if _, cloneError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        []string{gitCloneSubcommandConstant, trimmedRemoteURL, trimmedFolderName},
			WorkingDirectory: workspaceDirectory,
		}); cloneError != nil {
			return Result{}, fmt.Errorf(gitCloneFailureTemplateConstant, trimmedRemoteURL, folderPath, cloneError)
		}
		result.Cloned = true
	}

	fallbackUsed, checkoutError := service.checkoutTrackingBranch(executionContext, folderPath, remoteName, trimmedBranchName)
	if checkoutError != nil {
		return Result{}, checkoutError
	}
	result.FallbackUsed = fallbackUsed

	return result, nil
}

func (service *Service) folderExists(folderPath string) (bool, error) {
	folderInfo, statError := service.fileSystem.Stat(folderPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(folderInspectionFailureTemplateConstant, folderPath, statError)
	}
	if !folderInfo.IsDir() {
		return false, fmt.Errorf(folderNotDirectoryTemplateConstant, ErrFolderNotDirectory, folderPath)
	}
	return true, nil
}

// checkoutTrackingBranch creates the tracking branch once. When git refuses because
// the branch already exists, it switches to the branch and pulls it instead.
func (service *Service) checkoutTrackingBranch(executionContext context.Context, folderPath string, remoteName string, branchName string) (bool, error) {
	trackingReference := fmt.Sprintf(trackingReferenceTemplateConstant, remoteName, branchName)

	_, trackError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, gitTrackFlagConstant, trackingReference},
		WorkingDirectory: folderPath,
	})
	if trackError == nil {
		return false, nil
	}
	if !branchAlreadyExists(trackError) {
		return false, fmt.Errorf(gitTrackFailureTemplateConstant, trackingReference, folderPath, trackError)
	}

	if _, checkoutError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, branchName},
		WorkingDirectory: folderPath,
	}); checkoutError != nil {
		return true, fmt.Errorf(gitCheckoutFailureTemplateConstant, folderPath, branchName, checkoutError)
	}

	if _, pullError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPullSubcommandConstant, remoteName, branchName},
		WorkingDirectory: folderPath,
	}); pullError != nil {
		return true, fmt.Errorf(gitPullFailureTemplateConstant, branchName, remoteName, folderPath, pullError)
	}

	return true, nil
}

func branchAlreadyExists(trackError error) bool {
	var failedError execshell.CommandFailedError
	if !errors.As(trackError, &failedError) {
		return false
	}
	return strings.Contains(failedError.Result.StandardError, branchAlreadyExistsMarkerConstant)
}
