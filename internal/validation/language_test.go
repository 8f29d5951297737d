package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		subject string
		want    string
	}{
		{"python", "def add(a, b):\n    return a + b", "", "python"},
		{"javascript", "const add = (a, b) => a + b;", "", "javascript"},
		{"java", "public class Main { public static void main(String[] a) {} }", "", "java"},
		{"cpp", "#include <iostream>\nint main() { std::cout << 1; }", "", "cpp"},
		{"c", "#include <stdio.h>\nint main() { printf(\"1\"); }", "", "c"},
		{"go", "package main\n\nfunc main() {}", "", "go"},
		{"ruby", "puts 'hi'", "", "ruby"},
		{"subject fallback", "x = 1", "Python", "python"},
		{"subject word fallback", "x = 1", "Advanced Java", "java"},
		{"default", "x = 1", "Data Structures", DefaultLanguage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.code, tt.subject))
		})
	}
}
