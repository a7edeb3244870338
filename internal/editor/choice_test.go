package editor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cirrostrats/devsetup/internal/editor"
)

func TestParseChoice(testInstance *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedChoice editor.Choice
		expectError    bool
	}{
		{name: "nano", input: "nano", expectedChoice: editor.ChoiceNano},
		{name: "nano_alias_upper", input: " N ", expectedChoice: editor.ChoiceNano},
		{name: "vim_mixed_case", input: "ViM", expectedChoice: editor.ChoiceVim},
		{name: "vim_alias", input: "v", expectedChoice: editor.ChoiceVim},
		{name: "emacs", input: "emacs", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			choice, parseError := editor.ParseChoice(testCase.input)
			if testCase.expectError {
				require.ErrorIs(testInstance, parseError, editor.ErrInvalidChoice)
				require.ErrorContains(testInstance, parseError, "nano, vim")
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedChoice, choice)
		})
	}
}

func TestChoiceEnumeration(testInstance *testing.T) {
	require.Equal(testInstance, []string{"nano", "vim"}, editor.ChoiceNames())
	require.Equal(testInstance, editor.ChoiceNano, editor.DefaultChoice)
	require.Equal(testInstance, map[string]string{"n": "nano", "v": "vim"}, editor.ChoiceAliases())
	require.Equal(testInstance, "vim", editor.ChoiceVim.String())
}
