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

package tokenizer

import "strings"

// normalizer maps Unicode punctuation/space/zero-width variants onto
// the canonical ASCII-compatible forms the trained models were built
// for. All replacement targets are plain ASCII so the mapping is
// idempotent.
var normalizer = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"‚", "'", // single low-9 quotation mark
	"‛", "'", // single high-reversed-9 quotation mark
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"„", `"`, // double low-9 quotation mark
	"‟", `"`, // double high-reversed-9 quotation mark
	"—", " -- ", // em dash
	"–", "-", // en dash
	" ", " ", // no-break space
	" ", " ", // narrow no-break space
	"​", "", // zero width space
	"‌", "", // zero width non-joiner
	"‍", "", // zero width joiner
	"\uFEFF", "", // byte order mark
	"­", "", // soft hyphen
	"…", "...", // horizontal ellipsis
)

// Normalize returns text with typographic variants mapped to their
// canonical forms. Pure ASCII input passes through unchanged and
// Normalize(Normalize(x)) == Normalize(x) for any x.
func Normalize(text string) string {
	return normalizer.Replace(text)
}
