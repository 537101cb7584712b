package instagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"newsreel/internal/fetcher"
)

const (
	maxCaptionRunes  = 2200 // Instagram caption hard limit
	maxDescSentences = 6
	captionHeader    = "🌐 Today's Top Stories\n\n"
	hashtagSuffix    = "#todaysnews #headlines #trending #breakingnews"
)

// BuildCaption assembles the carousel caption: header, one Story block per
// headline with a description, hashtag suffix. The result never exceeds
// the platform's 2200-character cap, for any input.
func BuildCaption(items []fetcher.NewsItem) string {
	var b strings.Builder
	b.WriteString(captionHeader)

	// Budget leaves room for the hashtags plus a small buffer.
	budget := maxCaptionRunes - utf8.RuneCountInString(hashtagSuffix) - 20

	for i, item := range items {
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			continue
		}

		block := fmt.Sprintf("📌 Story %d: %s\n\n", i+1, truncateSentences(desc, maxDescSentences))
		if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(block) > budget {
			break
		}
		b.WriteString(block)
	}

	b.WriteString(hashtagSuffix)

	caption := b.String()
	if utf8.RuneCountInString(caption) > maxCaptionRunes {
		runes := []rune(caption)
		caption = string(runes[:maxCaptionRunes-3]) + "..."
	}
	return caption
}

// truncateSentences keeps at most n sentences of text.
func truncateSentences(text string, n int) string {
	sentences := strings.Split(text, ". ")
	if len(sentences) <= n {
		return text
	}
	return strings.Join(sentences[:n], ". ") + "."
}
