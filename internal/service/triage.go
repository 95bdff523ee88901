package service

import (
	"regexp"
	"strings"

	"github.com/shametoflame/ministry/internal/model"
)

// TriageResult classifies an incoming message so the admin console can sort
// urgent submissions first without decrypting anything.
type TriageResult struct {
	RiskLevel string
	Category  string
	Flags     model.Flags
}

var (
	urlPattern  = regexp.MustCompile(`https?://`)
	spamPattern = regexp.MustCompile(`(?i)(free money|crypto|airdrop|forex|seo|backlinks)`)

	crisisPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bkill myself\b`),
		regexp.MustCompile(`(?i)\bsuicide\b`),
		regexp.MustCompile(`(?i)\bend my life\b`),
		regexp.MustCompile(`(?i)\bself[- ]?harm\b`),
		regexp.MustCompile(`(?i)\bcan'?t go on\b`),
		regexp.MustCompile(`(?i)\bwant to die\b`),
	}
)

// Triage applies keyword heuristics to a submission. This is sorting, not
// diagnosis: flags mark messages for human review.
func Triage(requestType, text string) TriageResult {
	flags := model.Flags{}

	if len(urlPattern.FindAllString(text, -1)) >= 2 {
		flags = append(flags, "many_links")
	}
	if spamPattern.MatchString(text) {
		flags = append(flags, "spam_keywords")
	}
	if len(text) > 5000 {
		flags = append(flags, "very_long")
	}
	if hasRepeatedLetters(text, 13) {
		flags = append(flags, "repeated_chars")
	}

	crisis := false
	for _, p := range crisisPatterns {
		if p.MatchString(text) {
			crisis = true
			break
		}
	}
	if crisis {
		flags = append(flags, "possible_crisis_language")
	}

	category := model.CategoryGeneral
	switch strings.ToLower(requestType) {
	case model.CategoryPrayer:
		category = model.CategoryPrayer
	case model.CategoryBibleStudy:
		category = model.CategoryBibleStudy
	case model.CategoryTestimony:
		category = model.CategoryTestimony
	case model.CategoryCrisis:
		category = model.CategoryCrisis
	}

	risk := model.RiskLow
	switch {
	case category == model.CategoryCrisis || crisis:
		risk = model.RiskHigh
	case flags.Contains("spam_keywords") || flags.Contains("many_links"):
		risk = model.RiskMedium
	}

	return TriageResult{RiskLevel: risk, Category: category, Flags: flags}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// hasRepeatedLetters reports whether text contains a run of n or more of the
// same letter, a keyboard-mash signal.
func hasRepeatedLetters(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if isLetter(r) && r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}
