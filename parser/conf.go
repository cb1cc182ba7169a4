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
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	dfltMaxSentenceLen = 256
)

// Conf configures model loading for workers. Sentence length is
// bounded at the service boundary - the transition budget inside the
// engine is a safety net, not a length policy.
type Conf struct {
	ModelPath       string `json:"modelPath"`
	CalibrationPath string `json:"calibrationPath"`
	MaxSentenceLen  int    `json:"maxSentenceLen"`
}

func (conf *Conf) ValidateAndDefaults(confContext string) error {
	if conf == nil {
		return fmt.Errorf("missing configuration section `%s`", confContext)
	}
	if conf.ModelPath == "" {
		return fmt.Errorf("missing `%s.modelPath`", confContext)
	}
	if conf.MaxSentenceLen == 0 {
		conf.MaxSentenceLen = dfltMaxSentenceLen
		log.Warn().Msgf(
			"%s.maxSentenceLen not specified, using default: %d",
			confContext, dfltMaxSentenceLen,
		)
	}
	if conf.CalibrationPath == "" {
		log.Warn().Msgf(
			"%s.calibrationPath not specified, arc confidence will be reported as raw margins",
			confContext,
		)
	}
	return nil
}
