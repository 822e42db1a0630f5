// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package langdetect guesses the language of short texts so the translator
// can leave text alone when it is already in the target language.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// minLetters is the shortest sample worth classifying.
const minLetters = 6

// DefaultLanguages covers the sources and targets paperhub deals with.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Korean,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Russian,
}

// Detector reports ISO 639-1 codes. The lingua models are built on first use.
type Detector struct {
	languages []lingua.Language

	once     sync.Once
	detector lingua.LanguageDetector
}

// New returns a Detector restricted to languages, or DefaultLanguages when
// fewer than two are given.
func New(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = DefaultLanguages
	}
	return &Detector{languages: languages}
}

// Detect returns the lowercase ISO 639-1 code of text, or "" when the text is
// too short or no language is reliable.
func (d *Detector) Detect(text string) string {
	sample := strings.TrimSpace(text)
	if countLetters(sample) < minLetters {
		return ""
	}

	lang, ok := d.model().DetectLanguageOf(sample)
	if !ok {
		return ""
	}
	code := strings.ToLower(lang.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func (d *Detector) model() lingua.LanguageDetector {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(d.languages...).
			Build()
	})
	return d.detector
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
