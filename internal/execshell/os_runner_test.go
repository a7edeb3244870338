package execshell_test

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cirrostrats/devsetup/internal/execshell"
)

const (
	testShellExecutableConstant   = "sh"
	testMissingExecutableConstant = "devsetup-missing-executable-for-tests"
)

func TestOSCommandRunnerCapturesOutputAndExitCode(testInstance *testing.T) {
	if _, lookupError := exec.LookPath(testShellExecutableConstant); lookupError != nil {
		testInstance.Skip("sh is not available")
	}

	runner := execshell.NewOSCommandRunner()
	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: testShellExecutableConstant,
		Details: execshell.CommandDetails{
			Arguments:            []string{"-c", "printf \"$DEVSETUP_TEST_VALUE\"; printf problem >&2; exit 3"},
			WorkingDirectory:     testInstance.TempDir(),
			EnvironmentVariables: map[string]string{"DEVSETUP_TEST_VALUE": "hello"},
		},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 3, result.ExitCode)
	require.Equal(testInstance, "hello", result.StandardOutput)
	require.Equal(testInstance, "problem", result.StandardError)
}

func TestOSCommandRunnerAttachesTerminalStreams(testInstance *testing.T) {
	if _, lookupError := exec.LookPath(testShellExecutableConstant); lookupError != nil {
		testInstance.Skip("sh is not available")
	}

	terminalInput := bytes.NewBufferString("typed\n")
	terminalOutput := &bytes.Buffer{}
	terminalError := &bytes.Buffer{}
	runner := execshell.NewOSCommandRunnerWithTerminal(terminalInput, terminalOutput, terminalError)

	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: testShellExecutableConstant,
		Details: execshell.CommandDetails{
			Arguments:      []string{"-c", "read line; echo \"got $line\"; echo warning >&2"},
			AttachTerminal: true,
		},
	})
	require.NoError(testInstance, runError)
	require.Zero(testInstance, result.ExitCode)
	require.Equal(testInstance, "got typed\n", terminalOutput.String())
	require.Equal(testInstance, "warning\n", terminalError.String())
	require.Empty(testInstance, result.StandardOutput)
	require.Equal(testInstance, "warning\n", result.StandardError)
}

func TestOSCommandRunnerReportsMissingExecutable(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()
	_, runError := runner.Run(context.Background(), execshell.ShellCommand{Name: testMissingExecutableConstant})
	require.ErrorIs(testInstance, runError, exec.ErrNotFound)
}
