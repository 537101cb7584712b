package fetcher

import (
	"strings"
	"unicode"
)

// Boilerplate phrases aggregators append to headlines.
var unwantedPhrases = []string{
	"LIVE Updates", "Live Updates", "Latest News",
	"Latest Updates", "In Pics", "Watch Video",
	"See Pics", "Full Story",
}

// Abbreviations expanded so slides read as full sentences. Keys keep the
// trailing space so "PM " does not match inside another word.
var abbreviations = []struct{ short, full string }{
	{"PM ", "Prime Minister "},
	{"FM ", "Finance Minister "},
	{"CM ", "Chief Minister "},
	{"GDP ", "Gross Domestic Product "},
	{"CEO ", "Chief Executive Officer "},
	{"AI ", "Artificial Intelligence "},
	{"ML ", "Machine Learning "},
	{"EV ", "Electric Vehicle "},
	{"IPO ", "Initial Public Offering "},
}

// Headlines touching these topics are never posted.
var sensitiveKeywords = []string{
	"murder", "killed", "death", "dead", "suicide",
	"accident", "crash", "disaster", "tragedy",
	"explicit", "nude", "adult",
}

var categoryKeywords = map[string][]string{
	"business":      {"business", "market", "economy", "stock"},
	"technology":    {"tech", "technology", "gadget", "software"},
	"sports":        {"sports", "cricket", "football", "tennis"},
	"entertainment": {"entertainment", "movie", "music", "celebrity"},
}

// Category priority when classifying from the title alone; map iteration
// order would make tagging nondeterministic.
var categoryOrder = []string{"business", "technology", "sports", "entertainment"}

// CleanTitle strips source attribution and boilerplate, expands
// abbreviations and enforces sentence case with terminal punctuation.
// Returns "" when nothing usable remains.
func CleanTitle(title string) string {
	if title == "" {
		return ""
	}

	// News APIs append the outlet as " - Source"
	if idx := strings.Index(title, " - "); idx >= 0 {
		title = title[:idx]
	}

	for _, phrase := range unwantedPhrases {
		title = strings.ReplaceAll(title, phrase, "")
	}

	for _, abbr := range abbreviations {
		title = strings.ReplaceAll(title, abbr.short, abbr.full)
	}

	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return ""
	}

	runes := []rune(title)
	if unicode.IsLower(runes[0]) {
		runes[0] = unicode.ToUpper(runes[0])
		title = string(runes)
	}

	if !strings.HasSuffix(title, ".") && !strings.HasSuffix(title, "!") && !strings.HasSuffix(title, "?") {
		title += "."
	}

	return title
}

// IsSafe reports whether a headline avoids the sensitive-keyword denylist.
func IsSafe(title string) bool {
	lower := strings.ToLower(title)
	for _, word := range sensitiveKeywords {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

// Categorize tags a headline by keyword, falling back to "general".
func Categorize(title string) string {
	lower := strings.ToLower(title)
	for _, category := range categoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return "general"
}
