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

package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"udparse/uderror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel() *Model {
	return &Model{
		Version:   "1.2.0",
		Labelset:  "UD v2",
		TrainedOn: "UD_English-EWT",
		Provenance: Provenance{
			TrainCorpus:   "UD_English-EWT",
			CorpusVersion: "2.13",
			TrainDate:     "2024-03-18",
			UAS:           0.861,
			LAS:           0.832,
			OracleType:    "arc-eager static",
			PrunedFrom:    201544,
			PrunedTo:      18034,
		},
		Labels:      []string{"det", "nsubj", "obj", "root"},
		Transitions: []string{"SH", "RE", "LA-det", "LA-nsubj", "RA-obj", "RA-root"},
		Weights: map[string]map[string]float64{
			"s0.b0:DT.NN":    {"LA-det": 1.25, "SH": -0.5},
			"s0.b0:NN.VBD":   {"LA-nsubj": 0.75},
			"s0.b0:VBD.NN":   {"RA-obj": 1.5},
			"s0.b0:ROOT.VBD": {"RA-root": 2.0},
			"s0.hashead":     {"RE": 0.25},
		},
	}
}

func writeTempModel(t *testing.T, m *Model) string {
	t.Helper()
	rawData, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, rawData, 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	m, err := LoadJSON(writeTempModel(t, sampleModel()))
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, "UD_English-EWT", m.Provenance.TrainCorpus)
	assert.Equal(t, 1.25, m.Weights["s0.b0:DT.NN"]["LA-det"])
}

func TestLoadJSONMissingProvenance(t *testing.T) {
	m := sampleModel()
	m.Provenance.TrainCorpus = ""
	_, err := LoadJSON(writeTempModel(t, m))
	assert.Error(t, err)
	assert.IsType(t, uderror.ModelLoadError{}, err)
}

func TestLoadJSONBadTrainDate(t *testing.T) {
	m := sampleModel()
	m.Provenance.TrainDate = "18.3.2024"
	_, err := ParseJSON(mustMarshal(t, m))
	assert.IsType(t, uderror.ModelLoadError{}, err)
}

func TestValidateRejectsUnknownLabel(t *testing.T) {
	m := sampleModel()
	m.Labels = append(m.Labels, "subject")
	assert.Error(t, m.Validate())
}

func TestValidateRejectsMalformedTransition(t *testing.T) {
	m := sampleModel()
	m.Transitions = append(m.Transitions, "LEFT-det")
	assert.Error(t, m.Validate())
}

func TestLoadDispatchesByExtension(t *testing.T) {
	m := sampleModel()
	data, err := EncodeBinary(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Version, loaded.Version)

	loaded, err = Load(writeTempModel(t, m))
	require.NoError(t, err)
	assert.Equal(t, m.Version, loaded.Version)
}

func mustMarshal(t *testing.T, m *Model) []byte {
	t.Helper()
	rawData, err := json.Marshal(m)
	require.NoError(t, err)
	return rawData
}
