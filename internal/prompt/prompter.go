package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cirrostrats/devsetup/internal/editor"
)

const (
	branchPromptTemplateConstant        = "Which branch do you want to use? (default: %s): "
	editorPromptTemplateConstant        = "Use nano or vim for editing .env files? (%s) [%s]: "
	editorChoiceSeparatorConstant       = "/"
	invalidEditorAnswerMessageConstant  = "  Please enter 'nano' or 'vim'.\n"
	acknowledgementPromptIndentConstant = "  "
	lineDelimiterConstant               = '\n'
)

// IOPrompter reads answers from an io.Reader and writes questions to an io.Writer.
// End of input counts as an empty answer, so defaults apply.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	if output == nil {
		output = io.Discard
	}
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// AskBranch asks for the branch to use and returns defaultBranch on an empty answer.
func (prompter *IOPrompter) AskBranch(defaultBranch string) (string, error) {
	answer, _, askError := prompter.ask(fmt.Sprintf(branchPromptTemplateConstant, defaultBranch))
	if askError != nil {
		return "", askError
	}
	if len(answer) == 0 {
		return defaultBranch, nil
	}
	return answer, nil
}

// AskEditor asks for an editor until the answer names a supported one.
// An empty answer, or end of input, selects defaultChoice.
func (prompter *IOPrompter) AskEditor(defaultChoice editor.Choice) (editor.Choice, error) {
	question := fmt.Sprintf(editorPromptTemplateConstant, strings.Join(editor.ChoiceNames(), editorChoiceSeparatorConstant), defaultChoice)
	for {
		answer, inputExhausted, askError := prompter.ask(question)
		if askError != nil {
			return "", askError
		}
		if len(answer) == 0 {
			return defaultChoice, nil
		}

		choice, parseError := editor.ParseChoice(answer)
		if parseError == nil {
			return choice, nil
		}
		if _, writeError := io.WriteString(prompter.writer, invalidEditorAnswerMessageConstant); writeError != nil {
			return "", writeError
		}
		if inputExhausted {
			return defaultChoice, nil
		}
	}
}

// WaitForAcknowledgement prints the message and blocks until a line or end of input is read.
func (prompter *IOPrompter) WaitForAcknowledgement(message string) error {
	_, _, askError := prompter.ask(acknowledgementPromptIndentConstant + message)
	return askError
}

func (prompter *IOPrompter) ask(question string) (string, bool, error) {
	if _, writeError := io.WriteString(prompter.writer, question); writeError != nil {
		return "", false, writeError
	}

	response, readError := prompter.reader.ReadString(lineDelimiterConstant)
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", false, readError
	}
	return strings.TrimSpace(response), readError != nil, nil
}
