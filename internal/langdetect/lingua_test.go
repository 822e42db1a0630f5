// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package langdetect

import (
	"testing"

	lingua "github.com/pemistahl/lingua-go"
	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	d := New()
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "english", text: "Generative recommendation with large language models", want: "en"},
		{name: "chinese", text: "基于大语言模型的生成式推荐系统研究", want: "zh"},
		{name: "too short", text: "LLM", want: ""},
		{name: "digits only", text: "2024 12345 678", want: ""},
		{name: "blank", text: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text))
		})
	}
}

func TestNewFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, DefaultLanguages, New(lingua.English).languages)
	assert.Len(t, New(lingua.English, lingua.Chinese).languages, 2)
}

func TestCountLetters(t *testing.T) {
	assert.Equal(t, 5, countLetters("ab 1 2 推荐系"))
}
