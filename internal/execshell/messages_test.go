package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cirrostrats/devsetup/internal/execshell"
)

func TestCommandMessageFormatterDescribesGitCommands(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         execshell.ShellCommand
		result          execshell.ExecutionResult
		failure         error
		expectedStart   string
		expectedSuccess string
		expectedFailure string
	}{
		{
			name: "clone",
			command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{
				Arguments:        []string{"clone", "https://github.com/example/frontend.git", "frontend"},
				WorkingDirectory: "/workspace",
			}},
			result:          execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: repository not found"},
			expectedStart:   "Cloning frontend from https://github.com/example/frontend.git in /workspace",
			expectedSuccess: "Cloned frontend from https://github.com/example/frontend.git in /workspace",
			expectedFailure: "Failed to clone frontend from https://github.com/example/frontend.git in /workspace (exit code 128: fatal: repository not found)",
		},
		{
			name: "fetch",
			command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{
				Arguments:        []string{"fetch", "origin"},
				WorkingDirectory: "/workspace/frontend",
			}},
			result:          execshell.ExecutionResult{ExitCode: 1},
			expectedStart:   "Fetching from origin in /workspace/frontend",
			expectedSuccess: "Fetched from origin in /workspace/frontend",
			expectedFailure: "Failed to fetch from origin in /workspace/frontend (exit code 1)",
		},
		{
			name: "tracking_checkout",
			command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{
				Arguments:        []string{"checkout", "-t", "origin/dev"},
				WorkingDirectory: "/workspace/frontend",
			}},
			result:          execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: a branch named 'dev' already exists"},
			expectedStart:   "Creating local branch tracking origin/dev in /workspace/frontend",
			expectedSuccess: "/workspace/frontend now on a local branch tracking origin/dev",
			expectedFailure: "Could not create local branch tracking origin/dev in /workspace/frontend (exit code 128: fatal: a branch named 'dev' already exists)",
		},
		{
			name: "checkout",
			command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{
				Arguments: []string{"checkout", "dev"},
			}},
			result:          execshell.ExecutionResult{ExitCode: 1},
			expectedStart:   "Switching current directory to branch dev",
			expectedSuccess: "current directory now on branch dev",
			expectedFailure: "Failed to switch current directory to branch dev (exit code 1)",
		},
		{
			name: "pull",
			command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{
				Arguments:        []string{"pull", "origin", "dev"},
				WorkingDirectory: "/workspace/backend",
			}},
			result:          execshell.ExecutionResult{ExitCode: 1, StandardError: "fatal: couldn't find remote ref dev"},
			expectedStart:   "Pulling dev from origin in /workspace/backend",
			expectedSuccess: "Pulled dev from origin in /workspace/backend",
			expectedFailure: "Failed to pull dev from origin in /workspace/backend (exit code 1: fatal: couldn't find remote ref dev)",
		},
		{
			name: "editor",
			command: execshell.ShellCommand{Name: "vim", Details: execshell.CommandDetails{
				Arguments:      []string{"/workspace/backend/.env"},
				AttachTerminal: true,
			}},
			result:          execshell.ExecutionResult{ExitCode: 2},
			expectedStart:   "Opening /workspace/backend/.env with vim",
			expectedSuccess: "Closed /workspace/backend/.env in vim",
			expectedFailure: "vim exited with code 2 while editing /workspace/backend/.env",
		},
		{
			name: "generic",
			command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{
				Arguments:        []string{"status"},
				WorkingDirectory: "/workspace",
			}},
			result:          execshell.ExecutionResult{ExitCode: 1, StandardError: "boom"},
			expectedStart:   "Running git status (in /workspace)",
			expectedSuccess: "Completed git status (in /workspace)",
			expectedFailure: "git status (in /workspace) failed with exit code 1: boom",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedStart, formatter.BuildStartedMessage(testCase.command))
			require.Equal(testInstance, testCase.expectedSuccess, formatter.BuildSuccessMessage(testCase.command))
			require.Equal(testInstance, testCase.expectedFailure, formatter.BuildFailureMessage(testCase.command, testCase.result))
		})
	}
}

func TestCommandMessageFormatterDescribesExecutionFailure(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}
	command := execshell.ShellCommand{Name: "nano", Details: execshell.CommandDetails{Arguments: []string{".env"}, AttachTerminal: true}}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found in $PATH"))
	require.Equal(testInstance, "Unable to open .env with nano: executable file not found in $PATH", message)
}
