package editor

import (
	"errors"
	"fmt"
	"strings"
)

const (
	nanoChoiceNameConstant             = "nano"
	vimChoiceNameConstant              = "vim"
	nanoChoiceAliasConstant            = "n"
	vimChoiceAliasConstant             = "v"
	invalidChoiceMessageConstant       = "unsupported editor"
	invalidChoiceErrorTemplateConstant = "%w %q: expected one of %s"
	choiceListSeparatorConstant        = ", "
)

// Choice enumerates supported text editors.
type Choice string

// Supported editors.
const (
	ChoiceNano Choice = Choice(nanoChoiceNameConstant)
	ChoiceVim  Choice = Choice(vimChoiceNameConstant)
)

// DefaultChoice is used when no editor is requested.
const DefaultChoice = ChoiceNano

// ErrInvalidChoice indicates an answer that names no supported editor.
var ErrInvalidChoice = errors.New(invalidChoiceMessageConstant)

// Choices lists the supported editors in display order.
func Choices() []Choice {
	return []Choice{ChoiceNano, ChoiceVim}
}

// ChoiceNames lists the supported editor names in display order.
func ChoiceNames() []string {
	names := make([]string, 0, len(Choices()))
	for _, choice := range Choices() {
		names = append(names, string(choice))
	}
	return names
}

// ChoiceAliases maps accepted abbreviations onto editor names.
func ChoiceAliases() map[string]string {
	return map[string]string{
		nanoChoiceAliasConstant: nanoChoiceNameConstant,
		vimChoiceAliasConstant:  vimChoiceNameConstant,
	}
}

// ParseChoice resolves an editor name or abbreviation, ignoring case and surrounding spaces.
func ParseChoice(candidate string) (Choice, error) {
	normalizedCandidate := strings.ToLower(strings.TrimSpace(candidate))
	if aliasTarget, isAlias := ChoiceAliases()[normalizedCandidate]; isAlias {
		normalizedCandidate = aliasTarget
	}
	for _, choice := range Choices() {
		if string(choice) == normalizedCandidate {
			return choice, nil
		}
	}
	return "", fmt.Errorf(invalidChoiceErrorTemplateConstant, ErrInvalidChoice, candidate, strings.Join(ChoiceNames(), choiceListSeparatorConstant))
}

// String returns the executable name of the editor.
func (choice Choice) String() string {
	return string(choice)
}
