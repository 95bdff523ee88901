package service

import (
	"strings"
	"testing"

	"github.com/shametoflame/ministry/internal/model"
)

func TestTriage(t *testing.T) {
	tests := []struct {
		name        string
		requestType string
		text        string
		wantRisk    string
		wantCat     string
		wantFlags   []string
	}{
		{
			name:        "plain prayer request",
			requestType: "prayer",
			text:        "Please pray for my family this week.",
			wantRisk:    model.RiskLow,
			wantCat:     model.CategoryPrayer,
		},
		{
			name:        "unknown request type defaults to general",
			requestType: "something-else",
			text:        "Hello there.",
			wantRisk:    model.RiskLow,
			wantCat:     model.CategoryGeneral,
		},
		{
			name:        "crisis language raises risk",
			requestType: "general",
			text:        "I feel like I want to die and nothing helps.",
			wantRisk:    model.RiskHigh,
			wantCat:     model.CategoryGeneral,
			wantFlags:   []string{"possible_crisis_language"},
		},
		{
			name:        "crisis request type is high risk without keywords",
			requestType: "crisis",
			text:        "I need someone to talk to.",
			wantRisk:    model.RiskHigh,
			wantCat:     model.CategoryCrisis,
		},
		{
			name:        "spam keywords are medium risk",
			requestType: "general",
			text:        "Great crypto airdrop for your ministry!",
			wantRisk:    model.RiskMedium,
			wantCat:     model.CategoryGeneral,
			wantFlags:   []string{"spam_keywords"},
		},
		{
			name:        "many links are medium risk",
			requestType: "general",
			text:        "see https://a.example and https://b.example",
			wantRisk:    model.RiskMedium,
			wantCat:     model.CategoryGeneral,
			wantFlags:   []string{"many_links"},
		},
		{
			name:        "one link alone is fine",
			requestType: "testimony",
			text:        "my story is at https://a.example",
			wantRisk:    model.RiskLow,
			wantCat:     model.CategoryTestimony,
		},
		{
			name:        "very long message is flagged but low risk",
			requestType: "bible-study",
			text:        strings.Repeat("word ", 1200),
			wantRisk:    model.RiskLow,
			wantCat:     model.CategoryBibleStudy,
			wantFlags:   []string{"very_long"},
		},
		{
			name:        "repeated characters flagged",
			requestType: "general",
			text:        "aaaaaaaaaaaaaaaaaaaa",
			wantRisk:    model.RiskLow,
			wantCat:     model.CategoryGeneral,
			wantFlags:   []string{"repeated_chars"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Triage(tt.requestType, tt.text)
			if got.RiskLevel != tt.wantRisk {
				t.Errorf("risk: got %s, want %s", got.RiskLevel, tt.wantRisk)
			}
			if got.Category != tt.wantCat {
				t.Errorf("category: got %s, want %s", got.Category, tt.wantCat)
			}
			for _, flag := range tt.wantFlags {
				if !got.Flags.Contains(flag) {
					t.Errorf("missing flag %s in %v", flag, got.Flags)
				}
			}
		})
	}
}

func TestHasRepeatedLetters(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{strings.Repeat("a", 13), true},
		{strings.Repeat("a", 12), false},
		{strings.Repeat("B", 13), true},
		{"help " + strings.Repeat("e", 13) + "lp", true},
		{strings.Repeat("!", 20), false},
		{strings.Repeat("aA", 10), false},
		{"", false},
	}

	for _, tt := range tests {
		if got := hasRepeatedLetters(tt.text, 13); got != tt.want {
			t.Errorf("hasRepeatedLetters(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
