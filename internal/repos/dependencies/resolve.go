package dependencies

import (
	"go.uber.org/zap"

	"github.com/cirrostrats/devsetup/internal/execshell"
	"github.com/cirrostrats/devsetup/internal/repos/filesystem"
	"github.com/cirrostrats/devsetup/internal/repos/shared"
	"github.com/cirrostrats/devsetup/internal/ui"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	shellExecutor, creationError := newShellExecutor(logger, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveInteractiveExecutor returns the provided executor or constructs a terminal-attached default.
func ResolveInteractiveExecutor(existing shared.InteractiveExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.InteractiveExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	shellExecutor, creationError := newShellExecutor(logger, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

func newShellExecutor(logger *zap.Logger, humanReadableLogging bool) (*execshell.ShellExecutor, error) {
	var eventObserver execshell.CommandEventObserver
	if humanReadableLogging {
		eventObserver = ui.NewConsoleCommandEventLogger(logger)
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), eventObserver)
}
