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

package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"udparse/uderror"
)

// CalibrationBin maps a half-open margin range [MarginLow, MarginHigh)
// to an estimated P(arc correct).
type CalibrationBin struct {
	MarginLow   float64 `json:"marginLow"`
	MarginHigh  float64 `json:"marginHigh"`
	Probability float64 `json:"probability"`
}

// CalibrationTable converts raw score margins into calibrated
// probabilities. Bins are ordered by margin and probabilities are
// monotone non-decreasing, which Validate enforces at load time.
type CalibrationTable struct {
	Bins []CalibrationBin `json:"bins"`
}

func (t *CalibrationTable) Validate() error {
	if len(t.Bins) == 0 {
		return uderror.ModelLoadError{Msg: "calibration table has no bins"}
	}
	for i, bin := range t.Bins {
		if bin.MarginLow >= bin.MarginHigh {
			return uderror.ModelLoadError{
				Msg: fmt.Sprintf("calibration bin %d has an empty margin range", i),
			}
		}
		if bin.Probability < 0 || bin.Probability > 1 {
			return uderror.ModelLoadError{
				Msg: fmt.Sprintf("calibration bin %d probability out of [0, 1]", i),
			}
		}
		if i == 0 {
			continue
		}
		prev := t.Bins[i-1]
		if bin.MarginLow < prev.MarginHigh {
			return uderror.ModelLoadError{
				Msg: fmt.Sprintf("calibration bins %d and %d overlap", i-1, i),
			}
		}
		if bin.Probability < prev.Probability {
			return uderror.ModelLoadError{
				Msg: fmt.Sprintf("calibration probability decreases at bin %d", i),
			}
		}
	}
	return nil
}

// Probability performs the monotone lookup: margins below the first
// bin clamp to the first probability, margins above the last bin to
// the last one.
func (t *CalibrationTable) Probability(margin float64) float64 {
	if margin < t.Bins[0].MarginLow {
		return t.Bins[0].Probability
	}
	for _, bin := range t.Bins {
		if margin < bin.MarginHigh {
			return bin.Probability
		}
	}
	return t.Bins[len(t.Bins)-1].Probability
}

// LoadCalibration reads and validates a calibration table file.
func LoadCalibration(path string) (*CalibrationTable, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, uderror.ModelLoadError{
			Msg: fmt.Sprintf("failed to read calibration file: %s", err),
		}
	}
	var t CalibrationTable
	if err := json.Unmarshal(rawData, &t); err != nil {
		return nil, uderror.ModelLoadError{
			Msg: fmt.Sprintf("failed to decode calibration file: %s", err),
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
