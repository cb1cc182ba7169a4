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

// Package parser implements a greedy arc-eager transition-based
// dependency parser driven by a trained linear scoring model. Parsing
// is synchronous, performs no I/O and never mutates the model, so a
// single Parser may be shared by concurrent callers.
package parser

import (
	"fmt"
	"sort"

	"udparse/model"
	"udparse/ud"
	"udparse/uderror"
)

type Parser struct {
	model       *model.Model
	calibration *CalibrationTable
}

// NewParser wraps a loaded model. The calibration table is optional;
// without it margins stay raw (CalibratedProbability reports ok ==
// false).
func NewParser(m *model.Model, calibration *CalibrationTable) *Parser {
	return &Parser{
		model:       m,
		calibration: calibration,
	}
}

// CalibratedProbability converts a raw score margin into an estimated
// P(arc correct). The second return value is false when no
// calibration table was configured.
func (p *Parser) CalibratedProbability(margin float64) (float64, bool) {
	if p.calibration == nil {
		return 0, false
	}
	return p.calibration.Probability(margin), true
}

// HasCalibration reports whether a calibration table was configured.
func (p *Parser) HasCalibration() bool {
	return p.calibration != nil
}

// Parse turns a tagged sentence into a labeled dependency arc set.
// A token/tag length mismatch is a caller error; an empty sentence
// yields an empty arc set. The transition budget of 2n steps plus the
// final head-assignment sweep guarantee that even pathological model
// weights produce a valid tree.
func (p *Parser) Parse(tokens []string, tags []string) (*Result, error) {
	if len(tokens) != len(tags) {
		return nil, uderror.InputError{
			Msg: fmt.Sprintf(
				"token/tag length mismatch: %d tokens vs %d tags",
				len(tokens), len(tags),
			),
		}
	}
	n := len(tokens)
	ans := &Result{Arcs: make([]Arc, 0, n)}
	if n == 0 {
		return ans, nil
	}

	c := newConfiguration(tags)
	budget := 2 * n
	for step := 0; step < budget; step++ {
		chosen, margin, found := p.bestTransition(c)
		if !found {
			break
		}
		if createsArc(chosen) {
			apply(c, chosen, margin)

		} else {
			apply(c, chosen, 0)
		}
	}

	// self-healing sweep: any token the transition sequence left
	// headless is attached directly to ROOT so the tree invariant
	// holds unconditionally
	rootSeen := c.hasRootArc()
	for i := 1; i <= n; i++ {
		if c.hasHead[i] {
			continue
		}
		label := ud.RootLabel
		if rootSeen {
			label = "dep"
		}
		c.addArc(i, 0, label, 0)
		rootSeen = true
	}

	sort.Slice(c.arcs, func(i, j int) bool {
		return c.arcs[i].Dependent < c.arcs[j].Dependent
	})
	ans.Arcs = c.arcs
	return ans, nil
}

// bestTransition scores every legal transition by summing the model
// weights of the active features and picks the highest one. Ties
// resolve to the transition listed first in the model inventory,
// which keeps parsing deterministic.
func (p *Parser) bestTransition(c *configuration) (string, float64, bool) {
	feats := extractFeatures(c)
	var (
		chosen      string
		bestScore   float64
		secondScore float64
		numLegal    int
	)
	for _, transition := range p.model.Transitions {
		if !isLegal(c, transition) {
			continue
		}
		score := p.scoreTransition(feats, transition)
		numLegal++
		switch {
		case numLegal == 1:
			chosen, bestScore = transition, score
		case score > bestScore:
			secondScore = bestScore
			chosen, bestScore = transition, score
		case numLegal == 2 || score > secondScore:
			secondScore = score
		}
	}
	if numLegal == 0 {
		return "", 0, false
	}
	margin := 0.0
	if numLegal > 1 {
		margin = bestScore - secondScore
	}
	return chosen, margin, true
}

func (p *Parser) scoreTransition(feats []string, transition string) float64 {
	var score float64
	for _, feat := range feats {
		if row, ok := p.model.Weights[feat]; ok {
			score += row[transition]
		}
	}
	return score
}
