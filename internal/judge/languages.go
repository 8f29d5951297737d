package judge

import (
	"sort"
	"strings"
)

var languageIDs = map[string]int{
	"javascript": 63,
	"python":     71,
	"python3":    71,
	"php":        68,
	"ruby":       72,
	"c":          50,
	"c++":        54,
	"cpp":        54,
	"java":       62,
	"c#":         51,
	"csharp":     51,
	"go":         60,
	"golang":     60,
	"rust":       73,
	"swift":      83,
	"kotlin":     78,
	"haskell":    61,
	"scala":      81,
	"r":          80,
	"perl":       85,
	"lua":        64,
	"bash":       46,
	"shell":      46,
	"assembly":   45,
	"sql":        82,
	"mysql":      82,
	"typescript": 74,
}

// LanguageID maps a language name, case-insensitively, to its Judge0 id.
func LanguageID(language string) (int, bool) {
	id, ok := languageIDs[strings.ToLower(strings.TrimSpace(language))]
	return id, ok
}

// SupportedLanguages lists every accepted name in sorted order.
func SupportedLanguages() []string {
	names := make([]string, 0, len(languageIDs))
	for name := range languageIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
