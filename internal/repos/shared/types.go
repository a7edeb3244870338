package shared

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/cirrostrats/devsetup/internal/execshell"
	"github.com/cirrostrats/devsetup/internal/gitrepo"
)

const (
	// OriginRemoteNameConstant identifies the default upstream remote.
	OriginRemoteNameConstant = "origin"

	remoteURLRequiredMessageConstant          = "repository remote url must be provided"
	folderNameInvalidMessageConstant          = "repository folder must be a single directory name"
	folderNameDerivationErrorTemplateConstant = "unable to derive folder for %s: %w"
	currentDirectoryNameConstant              = "."
	parentDirectoryNameConstant               = ".."
	pathSeparatorCharactersConstant           = "/\\"
)

// ErrRemoteURLRequired indicates a repository descriptor without a remote.
var ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)

// ErrFolderNameInvalid indicates a folder that would escape the workspace.
var ErrFolderNameInvalid = errors.New(folderNameInvalidMessageConstant)

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// InteractiveExecutor runs executables that take over the terminal, such as editors.
type InteractiveExecutor interface {
	ExecuteInteractive(executionContext context.Context, name execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FileSystem exposes filesystem operations required by the setup services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	// CopyFile copies contents, permission bits and modification time.
	CopyFile(sourcePath string, destinationPath string) error
	CreateEmptyFile(path string) error
}

// RepositoryDescriptor names a repository the setup manages.
type RepositoryDescriptor struct {
	Name       string
	RemoteURL  string
	FolderName string
}

// NewRepositoryDescriptor validates the inputs and fills the folder and name defaults.
// An empty folder is derived from the remote, and an empty name falls back to the folder.
func NewRepositoryDescriptor(name string, remoteURL string, folderName string) (RepositoryDescriptor, error) {
	trimmedRemoteURL := strings.TrimSpace(remoteURL)
	if len(trimmedRemoteURL) == 0 {
		return RepositoryDescriptor{}, ErrRemoteURLRequired
	}

	trimmedFolderName := strings.TrimSpace(folderName)
	if len(trimmedFolderName) == 0 {
		derivedFolderName, derivationError := gitrepo.DeriveFolderName(trimmedRemoteURL)
		if derivationError != nil {
			return RepositoryDescriptor{}, fmt.Errorf(folderNameDerivationErrorTemplateConstant, trimmedRemoteURL, derivationError)
		}
		trimmedFolderName = derivedFolderName
	}
	if trimmedFolderName == currentDirectoryNameConstant || trimmedFolderName == parentDirectoryNameConstant || strings.ContainsAny(trimmedFolderName, pathSeparatorCharactersConstant) {
		return RepositoryDescriptor{}, ErrFolderNameInvalid
	}

	trimmedName := strings.TrimSpace(name)
	if len(trimmedName) == 0 {
		trimmedName = trimmedFolderName
	}

	return RepositoryDescriptor{Name: trimmedName, RemoteURL: trimmedRemoteURL, FolderName: trimmedFolderName}, nil
}
