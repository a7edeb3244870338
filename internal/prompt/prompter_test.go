package prompt_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cirrostrats/devsetup/internal/editor"
	"github.com/cirrostrats/devsetup/internal/prompt"
)

const (
	branchQuestionConstant = "Which branch do you want to use? (default: dev): "
	editorQuestionConstant = "Use nano or vim for editing .env files? (nano/vim) [nano]: "
	invalidAnswerConstant  = "  Please enter 'nano' or 'vim'.\n"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failure")
}

func TestAskBranch(testInstance *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedBranch string
	}{
		{name: "explicit", input: "main\n", expectedBranch: "main"},
		{name: "trimmed", input: "  feature/login  \n", expectedBranch: "feature/login"},
		{name: "empty_line", input: "\n", expectedBranch: "dev"},
		{name: "end_of_input", input: "", expectedBranch: "dev"},
		{name: "answer_without_newline", input: "release", expectedBranch: "release"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			prompter := prompt.NewIOPrompter(strings.NewReader(testCase.input), outputBuffer)

			branch, askError := prompter.AskBranch("dev")
			require.NoError(testInstance, askError)
			require.Equal(testInstance, testCase.expectedBranch, branch)
			require.Equal(testInstance, branchQuestionConstant, outputBuffer.String())
		})
	}
}

func TestAskEditor(testInstance *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedChoice editor.Choice
		expectedOutput string
	}{
		{name: "default_on_empty", input: "\n", expectedChoice: editor.ChoiceNano, expectedOutput: editorQuestionConstant},
		{name: "default_on_end_of_input", input: "", expectedChoice: editor.ChoiceNano, expectedOutput: editorQuestionConstant},
		{name: "vim_alias", input: "V\n", expectedChoice: editor.ChoiceVim, expectedOutput: editorQuestionConstant},
		{name: "nano_alias", input: "n\n", expectedChoice: editor.ChoiceNano, expectedOutput: editorQuestionConstant},
		{
			name:           "reprompts_on_invalid",
			input:          "emacs\nvi\nvim\n",
			expectedChoice: editor.ChoiceVim,
			expectedOutput: editorQuestionConstant + invalidAnswerConstant + editorQuestionConstant + invalidAnswerConstant + editorQuestionConstant,
		},
		{
			name:           "invalid_then_end_of_input",
			input:          "emacs",
			expectedChoice: editor.ChoiceNano,
			expectedOutput: editorQuestionConstant + invalidAnswerConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			prompter := prompt.NewIOPrompter(strings.NewReader(testCase.input), outputBuffer)

			choice, askError := prompter.AskEditor(editor.ChoiceNano)
			require.NoError(testInstance, askError)
			require.Equal(testInstance, testCase.expectedChoice, choice)
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestWaitForAcknowledgement(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	prompter := prompt.NewIOPrompter(strings.NewReader("\nvim\n"), outputBuffer)

	require.NoError(testInstance, prompter.WaitForAcknowledgement("Press Enter to continue..."))
	require.Equal(testInstance, "  Press Enter to continue...", outputBuffer.String())

	choice, askError := prompter.AskEditor(editor.ChoiceNano)
	require.NoError(testInstance, askError)
	require.Equal(testInstance, editor.ChoiceVim, choice)
}

func TestPrompterPropagatesReadFailures(testInstance *testing.T) {
	prompter := prompt.NewIOPrompter(failingReader{}, nil)

	_, branchError := prompter.AskBranch("dev")
	require.ErrorContains(testInstance, branchError, "read failure")

	_, editorError := prompter.AskEditor(editor.ChoiceNano)
	require.ErrorContains(testInstance, editorError, "read failure")

	require.ErrorContains(testInstance, prompter.WaitForAcknowledgement("Press Enter"), "read failure")
}
