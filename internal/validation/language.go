package validation

import (
	"strings"

	"github.com/vytor/banishment/internal/judge"
)

// DefaultLanguage is used when neither the code nor the subject names a language.
const DefaultLanguage = "javascript"

// Checked in order; the first rule with a matching marker wins.
var languageRules = []struct {
	language string
	markers  []string
}{
	{"php", []string{"<?php"}},
	{"cpp", []string{"#include <iostream>", "std::", "cout <<", "cin >>"}},
	{"c", []string{"#include <stdio.h>", "#include <stdlib.h>", "printf(", "scanf("}},
	{"csharp", []string{"using System", "Console.WriteLine", "Console.ReadLine"}},
	{"java", []string{"System.out.print", "public static void main", "import java."}},
	{"go", []string{"package main", "fmt.Print", "func main()"}},
	{"rust", []string{"fn main", "println!", "let mut "}},
	{"javascript", []string{"console.log", "function ", "=>", "const ", "let ", "require("}},
	{"ruby", []string{"puts ", " do |", "elsif "}},
	{"python", []string{"def ", "print(", "elif ", "input(", "import "}},
}

// DetectLanguage guesses the language of a submission from its content, then
// from the question subject, then falls back to DefaultLanguage. The content
// sniffing is a heuristic and only reliable for unambiguous code.
func DetectLanguage(code, subject string) string {
	for _, rule := range languageRules {
		for _, m := range rule.markers {
			if strings.Contains(code, m) {
				return rule.language
			}
		}
	}
	if lang := languageFromSubject(subject); lang != "" {
		return lang
	}
	return DefaultLanguage
}

func languageFromSubject(subject string) string {
	s := strings.ToLower(strings.TrimSpace(subject))
	if s == "" {
		return ""
	}
	if _, ok := judge.LanguageID(s); ok {
		return s
	}
	for _, word := range strings.Fields(s) {
		if _, ok := judge.LanguageID(word); ok {
			return word
		}
	}
	return ""
}
