package slides

import "strings"

// WrapText greedily packs words into lines no wider than maxWidth,
// measured by the given function (pixels in production, anything
// monotonic in tests). At most maxLines lines are returned; when content
// is cut off, the final line is marked with an ellipsis instead of
// dropping words silently. A single word wider than the budget gets a
// line of its own rather than stalling the wrap.
func WrapText(measure func(string) float64, text string, maxWidth float64, maxLines int) []string {
	words := strings.Fields(text)
	var lines []string
	var current []string

	for i, word := range words {
		test := append(current[:len(current):len(current)], word)
		if measure(strings.Join(test, " ")) <= maxWidth {
			current = test
			continue
		}

		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			if len(lines) >= maxLines {
				lines[len(lines)-1] = strings.TrimRight(lines[len(lines)-1], " ") + "..."
				return lines
			}
			current = []string{word}

			// The word alone may still overflow.
			if measure(word) > maxWidth {
				lines = append(lines, word)
				if len(lines) >= maxLines {
					if i < len(words)-1 {
						lines[len(lines)-1] += "..."
					}
					return lines
				}
				current = nil
			}
			continue
		}

		// No accumulated line and the word alone overflows.
		lines = append(lines, word)
		if len(lines) >= maxLines {
			if i < len(words)-1 {
				lines[len(lines)-1] += "..."
			}
			return lines
		}
	}

	if len(current) > 0 && len(lines) < maxLines {
		lines = append(lines, strings.Join(current, " "))
	}

	return lines
}
