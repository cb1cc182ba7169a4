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

package worker

import (
	"fmt"

	"udparse/deptree"
	"udparse/parser"
	"udparse/rdb"
	"udparse/rdb/results"
	"udparse/tokenizer"
	"udparse/uderror"
)

func (w *Worker) parseSentence(args rdb.ParseSentenceArgs) results.ParsedSentence {
	var ans results.ParsedSentence
	ans.Tokens = args.Tokens
	if len(args.Tokens) > w.maxSentenceLen {
		ans.Error = uderror.InputError{
			Msg: fmt.Sprintf(
				"sentence too long: %d tokens (max %d)", len(args.Tokens), w.maxSentenceLen)}
		return ans
	}
	parsed, err := w.parser.Parse(args.Tokens, args.Tags)
	if err != nil {
		ans.Error = err
		return ans
	}
	ans.Arcs = w.exportArcs(parsed, args.WithProbabilities)
	return ans
}

// exportArcs converts engine arcs into the wire form, attaching
// calibrated probabilities when asked for and available.
func (w *Worker) exportArcs(parsed *parser.Result, withProbs bool) []results.Arc {
	ans := make([]results.Arc, len(parsed.Arcs))
	for i, arc := range parsed.Arcs {
		ans[i] = results.Arc{
			Dependent:   arc.Dependent,
			Head:        arc.Head,
			Label:       arc.Label,
			ScoreMargin: arc.ScoreMargin,
		}
		if withProbs {
			if prob, ok := w.parser.CalibratedProbability(arc.ScoreMargin); ok {
				ans[i].Probability = &prob
			}
		}
	}
	return ans
}

func (w *Worker) tokenizeText(args rdb.TokenizeTextArgs) results.TokenizedText {
	var ans results.TokenizedText
	if args.Text == "" {
		ans.Error = uderror.InputError{Msg: "empty text"}
		return ans
	}
	ans.Tokens = tokenizer.TokenizeForPOS(args.Text)
	return ans
}

// nounTags mark entity head candidates.
var nounTags = map[string]bool{
	"NN":   true,
	"NNS":  true,
	"NNP":  true,
	"NNPS": true,
}

// nounInternalLabels attach a noun inside a larger noun phrase; such
// a noun is covered by its governor's entity and never reported as a
// head of its own.
var nounInternalLabels = map[string]bool{
	"compound":  true,
	"flat":      true,
	"flat:name": true,
	"appos":     true,
	"conj":      true,
}

func (w *Worker) extractEntities(args rdb.ExtractEntitiesArgs) results.EntityList {
	var ans results.EntityList
	if len(args.Tokens) > w.maxSentenceLen {
		ans.Error = uderror.InputError{
			Msg: fmt.Sprintf(
				"sentence too long: %d tokens (max %d)", len(args.Tokens), w.maxSentenceLen)}
		return ans
	}
	parsed, err := w.parser.Parse(args.Tokens, args.Tags)
	if err != nil {
		ans.Error = err
		return ans
	}
	tree := deptree.NewTree(parsed.Arcs, args.Tokens, args.Tags)
	ans.Entities = []results.Entity{}
	for i := 1; i <= len(args.Tokens); i++ {
		if !nounTags[tree.Tag(i)] {
			continue
		}
		if nounInternalLabels[tree.Label(i)] && nounTags[tree.Tag(treeHead(parsed, i))] {
			continue
		}
		sub := tree.EntitySubtree(i)
		ans.Entities = append(ans.Entities, results.Entity{
			HeadIndex:   i,
			Tokens:      sub.Tokens,
			Indices:     sub.Indices,
			Appositions: tree.Appositions(i),
		})
	}
	return ans
}

// treeHead finds the head index of a dependent in a finished parse.
func treeHead(parsed *parser.Result, dependent int) int {
	for _, arc := range parsed.Arcs {
		if arc.Dependent == dependent {
			return arc.Head
		}
	}
	return 0
}

func (w *Worker) modelInfo(args rdb.ModelInfoArgs) results.ModelInfo {
	return results.ModelInfo{
		Version:        w.mdl.Version,
		Labelset:       w.mdl.Labelset,
		TrainedOn:      w.mdl.TrainedOn,
		Provenance:     w.mdl.Provenance,
		NumLabels:      len(w.mdl.Labels),
		NumTransitions: len(w.mdl.Transitions),
		NumFeatures:    len(w.mdl.Weights),
		HasCalibration: w.parser.HasCalibration(),
	}
}
