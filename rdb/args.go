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

package rdb

// ParseSentenceArgs carries a tokenized and tagged sentence to the
// parseSentence worker function. Tokens and Tags must be the same
// length.
type ParseSentenceArgs struct {
	Tokens []string `json:"tokens"`
	Tags   []string `json:"tags"`

	// WithProbabilities asks the worker to attach calibrated
	// attachment probabilities to each arc (requires a loaded
	// calibration table).
	WithProbabilities bool `json:"withProbabilities"`
}

type TokenizeTextArgs struct {
	Text string `json:"text"`
}

type ExtractEntitiesArgs struct {
	Tokens []string `json:"tokens"`
	Tags   []string `json:"tags"`
}

type ModelInfoArgs struct {
}
