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

// Package model loads trained parsing models. Two interchangeable
// forms are supported: a structured JSON form and a compact binary
// form with an integrity checksum. A loaded Model is immutable and
// may be shared read-only across concurrent parse calls.
package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"udparse/ud"
	"udparse/uderror"
)

// Provenance records where and how the model was trained. All string
// fields plus TrainDate are required for a successful load.
type Provenance struct {
	TrainCorpus   string  `json:"trainCorpus"`
	CorpusVersion string  `json:"corpusVersion"`
	TrainDate     string  `json:"trainDate"`
	UAS           float64 `json:"UAS"`
	LAS           float64 `json:"LAS"`
	OracleType    string  `json:"oracleType"`
	PrunedFrom    int     `json:"prunedFrom"`
	PrunedTo      int     `json:"prunedTo"`
}

// Model is a trained linear scoring model for the arc-eager
// transition system. Weights map a feature key to per-transition
// weights; transitions are named "SH", "RE", "LA-<label>",
// "RA-<label>".
type Model struct {
	Version     string                        `json:"version"`
	Labelset    string                        `json:"labelset"`
	TrainedOn   string                        `json:"trainedOn"`
	Provenance  Provenance                    `json:"provenance"`
	Labels      []string                      `json:"labels"`
	Transitions []string                      `json:"transitions"`
	Weights     map[string]map[string]float64 `json:"weights"`
}

// Validate checks the invariants a loaded model must satisfy before
// it may be used for inference.
func (m *Model) Validate() error {
	if m.Version == "" {
		return uderror.ModelLoadError{Msg: "missing model version"}
	}
	if len(m.Labels) == 0 {
		return uderror.ModelLoadError{Msg: "empty label inventory"}
	}
	if len(m.Transitions) == 0 {
		return uderror.ModelLoadError{Msg: "empty transition inventory"}
	}
	for _, label := range m.Labels {
		if !ud.IsValidLabel(label) {
			return uderror.ModelLoadError{
				Msg: fmt.Sprintf("label %s is not a UD v2 relation", label),
			}
		}
	}
	for _, t := range m.Transitions {
		if !validTransitionName(t) {
			return uderror.ModelLoadError{
				Msg: fmt.Sprintf("malformed transition name %s", t),
			}
		}
	}
	if err := m.Provenance.validate(); err != nil {
		return err
	}
	return nil
}

func (p Provenance) validate() error {
	required := map[string]string{
		"trainCorpus":   p.TrainCorpus,
		"corpusVersion": p.CorpusVersion,
		"trainDate":     p.TrainDate,
		"oracleType":    p.OracleType,
	}
	for name, v := range required {
		if v == "" {
			return uderror.ModelLoadError{
				Msg: fmt.Sprintf("missing required provenance field `%s`", name),
			}
		}
	}
	if _, err := time.Parse("2006-01-02", p.TrainDate); err != nil {
		if _, err := time.Parse(time.RFC3339, p.TrainDate); err != nil {
			return uderror.ModelLoadError{
				Msg: fmt.Sprintf("trainDate `%s` is not an ISO-8601 date", p.TrainDate),
			}
		}
	}
	return nil
}

func validTransitionName(t string) bool {
	switch {
	case t == "SH" || t == "RE":
		return true
	case strings.HasPrefix(t, "LA-"):
		return ud.IsValidLabel(t[3:])
	case strings.HasPrefix(t, "RA-"):
		return ud.IsValidLabel(t[3:])
	}
	return false
}

// Load reads a model file, dispatching between the structured and the
// binary form by file extension (.bin is binary, anything else is
// treated as JSON).
func Load(path string) (*Model, error) {
	if strings.ToLower(filepath.Ext(path)) == ".bin" {
		return LoadBinary(path)
	}
	return LoadJSON(path)
}
