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
	"fmt"
	"os"

	"udparse/uderror"
)

// LoadJSON reads the structured model form. A model failing
// validation is never returned, not even partially.
func LoadJSON(path string) (*Model, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, uderror.ModelLoadError{
			Msg: fmt.Sprintf("failed to read model file: %s", err),
		}
	}
	return ParseJSON(rawData)
}

// ParseJSON decodes and validates the structured model form from raw
// bytes.
func ParseJSON(rawData []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(rawData, &m); err != nil {
		return nil, uderror.ModelLoadError{
			Msg: fmt.Sprintf("failed to decode model: %s", err),
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Weights == nil {
		m.Weights = map[string]map[string]float64{}
	}
	return &m, nil
}
