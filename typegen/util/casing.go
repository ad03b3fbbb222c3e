package util

import (
	"strings"
	"unicode"
)

type caseMode int

const (
	modeBoundary caseMode = iota
	modeLower
	modeUpper
)

// Words splits an identifier into words.
// Non-alphanumeric characters separate words; inside a run, a lower-to-upper
// transition starts a new word, and an acronym ends before its last capital
// when that capital starts a lowercase word ("HTTPSConnection" -> HTTPS, Connection).
// Digits belong to the word they follow ("VkAccess2" -> Vk, Access2).
func Words(s string) []string {
	var words []string
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, part := range parts {
		runes := []rune(part)
		start := 0
		mode := modeBoundary

		for i, c := range runes {
			if i == len(runes)-1 {
				words = append(words, string(runes[start:]))
				break
			}
			next := runes[i+1]

			nextMode := mode
			if unicode.IsLower(c) {
				nextMode = modeLower
			} else if unicode.IsUpper(c) {
				nextMode = modeUpper
			}

			switch {
			case nextMode == modeLower && unicode.IsUpper(next):
				words = append(words, string(runes[start:i+1]))
				start = i + 1
				mode = modeBoundary
			case mode == modeUpper && unicode.IsUpper(c) && unicode.IsLower(next):
				words = append(words, string(runes[start:i]))
				start = i
				mode = modeBoundary
			default:
				mode = nextMode
			}
		}
	}
	return words
}

// ToSnakeCase converts an identifier to snake_case ("ppEnabledLayerNames" -> "pp_enabled_layer_names")
func ToSnakeCase(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// ToShoutySnakeCase converts an identifier to SHOUTY_SNAKE_CASE ("VkSampleCountEXT" -> "VK_SAMPLE_COUNT_EXT")
func ToShoutySnakeCase(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return strings.Join(words, "_")
}

// ToPascalCase converts snake_case or kebab-case to PascalCase
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}
