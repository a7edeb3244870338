package editor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/cirrostrats/devsetup/internal/execshell"
	"github.com/cirrostrats/devsetup/internal/repos/shared"
)

const (
	executorMissingMessageConstant = "interactive executor not configured"
	editorNotFoundMessageConstant  = "editor not found"
	editorFailedMessageConstant    = "editor exited with an error"
	editorErrorTemplateConstant    = "%w: %s: %w"
)

// ErrExecutorNotConfigured indicates the launcher was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrEditorNotFound indicates the editor executable could not be located.
var ErrEditorNotFound = errors.New(editorNotFoundMessageConstant)

// ErrEditorFailed indicates the editor ran but exited with a non-zero code.
var ErrEditorFailed = errors.New(editorFailedMessageConstant)

// Launcher opens files in a terminal text editor.
type Launcher struct {
	executor shared.InteractiveExecutor
}

// NewLauncher constructs a Launcher.
func NewLauncher(executor shared.InteractiveExecutor) (*Launcher, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Launcher{executor: executor}, nil
}

// Open runs the editor on filePath and blocks until it exits.
// Failures are classified as ErrEditorNotFound or ErrEditorFailed when possible.
func (launcher *Launcher) Open(executionContext context.Context, choice Choice, filePath string) error {
	_, executionError := launcher.executor.ExecuteInteractive(executionContext, execshell.CommandName(choice), execshell.CommandDetails{
		Arguments: []string{filePath},
	})
	if executionError == nil {
		return nil
	}

	if errors.Is(executionError, exec.ErrNotFound) {
		return fmt.Errorf(editorErrorTemplateConstant, ErrEditorNotFound, choice, executionError)
	}

	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		return fmt.Errorf(editorErrorTemplateConstant, ErrEditorFailed, choice, executionError)
	}

	return executionError
}
