package validation

import (
	"regexp"
	"strings"
)

// SimilarityThreshold is the score at or above which a fallback-graded answer passes.
const SimilarityThreshold = 0.7

const (
	weightStructure   = 0.3
	weightKeywords    = 0.3
	weightIdentifiers = 0.2
	weightControlFlow = 0.2
)

var tokenPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

var keywords = toSet(
	"function", "def", "func", "fn", "class", "struct", "return", "if", "else", "elif", "elsif",
	"for", "while", "do", "switch", "case", "match", "break", "continue", "try", "catch", "except",
	"finally", "const", "let", "var", "new", "import", "from", "package", "public", "private",
	"static", "void", "int", "string", "bool", "true", "false", "null", "nil", "None", "True",
	"False", "in", "of", "range", "lambda", "yield", "async", "await", "this", "self", "end",
)

var controlFlow = toSet(
	"if", "else", "elif", "elsif", "for", "while", "do", "switch", "case", "match",
	"break", "continue", "return", "try", "catch", "except", "finally", "yield",
)

// structural features compared presence-for-presence
var structureFeatures = []func(codeProfile) bool{
	func(p codeProfile) bool { return p.has("function", "def", "func", "fn", "=>") },
	func(p codeProfile) bool { return p.has("return") },
	func(p codeProfile) bool { return p.has("for", "while", "do") },
	func(p codeProfile) bool { return p.has("if", "switch", "match", "case") },
	func(p codeProfile) bool { return p.has("class", "struct") },
}

type codeProfile struct {
	tokens      map[string]struct{}
	keywords    map[string]struct{}
	identifiers map[string]struct{}
	flow        map[string]struct{}
}

func (p codeProfile) has(names ...string) bool {
	for _, n := range names {
		if _, ok := p.tokens[n]; ok {
			return true
		}
	}
	return false
}

func profile(code string) codeProfile {
	p := codeProfile{
		tokens:      map[string]struct{}{},
		keywords:    map[string]struct{}{},
		identifiers: map[string]struct{}{},
		flow:        map[string]struct{}{},
	}
	if strings.Contains(code, "=>") {
		p.tokens["=>"] = struct{}{}
	}
	for _, tok := range tokenPattern.FindAllString(code, -1) {
		p.tokens[tok] = struct{}{}
		if _, ok := keywords[tok]; ok {
			p.keywords[tok] = struct{}{}
		} else {
			p.identifiers[tok] = struct{}{}
		}
		if _, ok := controlFlow[tok]; ok {
			p.flow[tok] = struct{}{}
		}
	}
	return p
}

// Similarity scores submitted code against a reference solution in [0, 1] as a
// weighted blend of structure, keyword, identifier and control-flow overlap.
func Similarity(submitted, reference string) float64 {
	if strings.TrimSpace(submitted) == "" || strings.TrimSpace(reference) == "" {
		return 0
	}
	a, b := profile(submitted), profile(reference)

	matched := 0
	for _, feature := range structureFeatures {
		if feature(a) == feature(b) {
			matched++
		}
	}
	structure := float64(matched) / float64(len(structureFeatures))

	return weightStructure*structure +
		weightKeywords*jaccard(a.keywords, b.keywords) +
		weightIdentifiers*jaccard(a.identifiers, b.identifiers) +
		weightControlFlow*jaccard(a.flow, b.flow)
}

// jaccard treats two empty sets as identical.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func toSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
