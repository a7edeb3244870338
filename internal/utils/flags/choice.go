package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix    = "<"
	choicePlaceholderSuffix    = ">"
	choiceSeparatorLiteral     = "|"
	choiceUsageEmptyTemplate   = "`%s`"
	choiceUsageFullTemplate    = "`%s` %s"
	choiceListSeparatorLiteral = ", "
	choiceParseErrorTemplate   = "invalid value %q: expected one of %s"
	choiceFlagTypeNameLiteral  = "string"
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// AddChoiceFlag registers a string flag that only accepts the provided choices or their aliases.
// Accepted values are stored in their canonical spelling. The target starts at defaultChoice;
// callers inspect the flag's Changed state to tell an explicit value from the default.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, aliases map[string]string, description string) {
	if flagSet == nil || target == nil || len(name) == 0 {
		return
	}

	value := newChoiceFlagValue(target, defaultChoice, choices, aliases)
	flagSet.Var(value, name, FormatChoiceUsage(defaultChoice, choices, description))
}

type choiceFlagValue struct {
	target          *string
	canonicalValues map[string]string
	choices         []string
}

func newChoiceFlagValue(target *string, defaultChoice string, choices []string, aliases map[string]string) *choiceFlagValue {
	canonicalValues := make(map[string]string, len(choices)+len(aliases))
	orderedChoices := make([]string, 0, len(choices))
	for _, choice := range choices {
		normalizedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := canonicalValues[normalizedChoice]; exists {
			continue
		}
		canonicalValues[normalizedChoice] = normalizedChoice
		orderedChoices = append(orderedChoices, normalizedChoice)
	}
	for alias, canonical := range aliases {
		normalizedCanonical := strings.ToLower(strings.TrimSpace(canonical))
		if _, exists := canonicalValues[normalizedCanonical]; !exists {
			continue
		}
		canonicalValues[strings.ToLower(strings.TrimSpace(alias))] = normalizedCanonical
	}

	*target = strings.ToLower(strings.TrimSpace(defaultChoice))
	return &choiceFlagValue{target: target, canonicalValues: canonicalValues, choices: orderedChoices}
}

func (value *choiceFlagValue) Set(rawValue string) error {
	canonical, known := value.canonicalValues[strings.ToLower(strings.TrimSpace(rawValue))]
	if !known {
		return fmt.Errorf(choiceParseErrorTemplate, rawValue, strings.Join(value.choices, choiceListSeparatorLiteral))
	}
	*value.target = canonical
	return nil
}

func (value *choiceFlagValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

func (value *choiceFlagValue) Type() string {
	return choiceFlagTypeNameLiteral
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if normalizedChoice == normalizedDefault && len(normalizedChoice) > 0 {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}
