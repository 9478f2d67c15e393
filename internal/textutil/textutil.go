// Package textutil provides the shared lexical primitives: word-set
// similarity, sentence splitting, and stable text hashing.
package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Jaccard computes word-set overlap between two texts in [0,1].
// Both texts are lowercased and split on whitespace.
func Jaccard(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Similar reports whether two texts overlap at or above the threshold
func Similar(a, b string, threshold float64) bool {
	return Jaccard(a, b) >= threshold
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

// Sentence is one unit of a split message
type Sentence struct {
	Text       string
	IsQuestion bool
}

// SplitSentences splits a message on periods, then re-splits any
// segment containing a question mark so each question stands alone
// with its trailing '?'. Question precedence is deterministic: a
// sentence ending in '?' is always a question, never a claim.
func SplitSentences(message string) []Sentence {
	var sentences []Sentence

	for _, seg := range strings.Split(message, ".") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		if strings.Contains(seg, "?") {
			for _, part := range strings.Split(seg, "?") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				sentences = append(sentences, Sentence{Text: part + "?", IsQuestion: true})
			}
			continue
		}

		sentences = append(sentences, Sentence{Text: seg})
	}

	return sentences
}

// HashText generates a stable short ID from normalized text
func HashText(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])[:12]
}

// WordCount counts whitespace-separated tokens
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CountPhrases counts occurrences of each phrase in lowercased text
func CountPhrases(text string, phrases []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, phrase := range phrases {
		count += strings.Count(lower, phrase)
	}
	return count
}

// ContainsAny reports whether lowercased text contains any keyword
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// CountKeywords counts how many keywords appear in lowercased text
func CountKeywords(text string, keywords []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			count++
		}
	}
	return count
}
