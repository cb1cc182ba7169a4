// Copyright 2024 UDPARSE contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tokenizer splits raw text into UD-EWT-aligned tokens. The
// boundary rules (contraction splitting, punctuation isolation) must
// match the token granularity the parsing models were trained on, so
// any change here invalidates trained models.
package tokenizer

import (
	"strings"
	"unicode"
)

// clitics are the pronoun+auxiliary and possessive suffixes UD
// annotation splits from their host word.
var clitics = []string{"'ll", "'re", "'ve", "'m", "'d", "'s"}

const (
	openingPuncts = `(["'{`
	closingPuncts = `)]}"',.;:!?`
)

// IsKnownArtifact reports whether a token belongs to the small set of
// surface forms the rule-based tokenizer deliberately keeps intact
// even though UD-EWT annotators sometimes split them (e-mail
// addresses, URLs, internal-period abbreviations). Such tokens are
// excluded from strict alignment accounting.
func IsKnownArtifact(token string) bool {
	if strings.Contains(token, "@") || strings.Contains(token, "://") {
		return true
	}
	if strings.HasPrefix(strings.ToLower(token), "www.") {
		return true
	}
	return looksLikeAbbreviation(token)
}

// looksLikeAbbreviation matches dotted abbreviations such as "U.S."
// where the final period belongs to the token, not the sentence.
func looksLikeAbbreviation(token string) bool {
	if !strings.HasSuffix(token, ".") {
		return false
	}
	var internalDot bool
	for i, r := range token {
		if r == '.' {
			if i < len(token)-1 {
				internalDot = true
			}
			continue
		}
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return internalDot
}

// TokenizeForPOS normalizes text and splits it into an ordered token
// sequence following UD-EWT conventions: negation contractions split
// at the clitic boundary with the irregular stem preserved ("can't"
// yields "ca", "n't"), pronoun+auxiliary and possessive clitics split
// from their host, and parentheses and sentence punctuation are
// isolated as standalone tokens.
func TokenizeForPOS(text string) []string {
	fields := strings.Fields(Normalize(text))
	ans := make([]string, 0, len(fields)*2)
	for _, field := range fields {
		ans = appendFieldTokens(ans, field)
	}
	return ans
}

func appendFieldTokens(ans []string, field string) []string {
	if IsKnownArtifact(field) {
		return append(ans, field)
	}

	for len(field) > 0 && strings.ContainsRune(openingPuncts, rune(field[0])) {
		ans = append(ans, string(field[0]))
		field = field[1:]
	}

	tail := ""
	for len(field) > 0 && strings.ContainsRune(closingPuncts, rune(field[len(field)-1])) {
		tail = string(field[len(field)-1]) + tail
		field = field[:len(field)-1]
	}

	if len(field) > 0 {
		ans = appendWordTokens(ans, field)
	}
	return append(ans, splitTail(tail)...)
}

// appendWordTokens handles the contraction boundary inside a single
// word; the word carries no leading/trailing punctuation at this
// point.
func appendWordTokens(ans []string, word string) []string {
	lower := strings.ToLower(word)
	// stripping "n't" covers the irregular stems, too:
	// can't -> ca, won't -> wo
	if strings.HasSuffix(lower, "n't") && len(word) > 3 {
		return append(ans, word[:len(word)-3], word[len(word)-3:])
	}
	for _, clitic := range clitics {
		if strings.HasSuffix(lower, clitic) && len(word) > len(clitic) {
			cut := len(word) - len(clitic)
			return append(ans, word[:cut], word[cut:])
		}
	}
	return append(ans, word)
}

// splitTail emits trailing punctuation as standalone tokens, merging
// runs of the same terminal character so that "..." or "!!" stay
// single tokens.
func splitTail(tail string) []string {
	var ans []string
	for i := 0; i < len(tail); {
		j := i + 1
		if strings.ContainsRune(".!?", rune(tail[i])) {
			for j < len(tail) && tail[j] == tail[i] {
				j++
			}
		}
		ans = append(ans, tail[i:j])
		i = j
	}
	return ans
}
