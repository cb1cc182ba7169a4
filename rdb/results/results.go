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

// Package results defines the concrete values worker functions
// produce and the API server returns to clients.
package results

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"udparse/model"
	"udparse/rdb"
)

func errToStr(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}

// ----

// Arc is a single dependency attachment. Dependent and Head are
// 1-based token indexes with 0 standing for the artificial root.
// Probability is present only when the worker has a calibration
// table loaded and the client asked for it.
type Arc struct {
	Dependent   int      `json:"dependent"`
	Head        int      `json:"head"`
	Label       string   `json:"label"`
	ScoreMargin float64  `json:"scoreMargin"`
	Probability *float64 `json:"probability,omitempty"`
}

type ParsedSentenceResponse struct {
	Tokens     []string       `json:"tokens"`
	Arcs       []Arc          `json:"arcs"`
	ResultType rdb.ResultType `json:"resultType"`
	Error      string         `json:"error,omitempty"`
}

func (res ParsedSentenceResponse) Err() error {
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

type ParsedSentence struct {
	Tokens []string `json:"tokens"`
	Arcs   []Arc    `json:"arcs"`
	Error  error    `json:"error,omitempty"`
}

func (res ParsedSentence) Err() error {
	return res.Error
}

func (res ParsedSentence) Type() rdb.ResultType {
	return rdb.ResultTypeParsedSentence
}

func (res *ParsedSentence) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(ParsedSentenceResponse{
		Tokens:     res.Tokens,
		Arcs:       res.Arcs,
		ResultType: res.Type(),
		Error:      errToStr(res.Error),
	})
}

// ----

type TokenizedTextResponse struct {
	Tokens     []string       `json:"tokens"`
	ResultType rdb.ResultType `json:"resultType"`
	Error      string         `json:"error,omitempty"`
}

func (res TokenizedTextResponse) Err() error {
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

type TokenizedText struct {
	Tokens []string `json:"tokens"`
	Error  error    `json:"error,omitempty"`
}

func (res TokenizedText) Err() error {
	return res.Error
}

func (res TokenizedText) Type() rdb.ResultType {
	return rdb.ResultTypeTokenizedText
}

func (res *TokenizedText) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(TokenizedTextResponse{
		Tokens:     res.Tokens,
		ResultType: res.Type(),
		Error:      errToStr(res.Error),
	})
}

// ----

// Entity is a noun phrase pulled out of a parsed sentence: the
// phrase tokens without attached clauses or appositions, plus the
// appositions listed separately.
type Entity struct {
	HeadIndex   int      `json:"headIndex"`
	Tokens      []string `json:"tokens"`
	Indices     []int    `json:"indices"`
	Appositions []string `json:"appositions,omitempty"`
}

type EntityListResponse struct {
	Entities   []Entity       `json:"entities"`
	ResultType rdb.ResultType `json:"resultType"`
	Error      string         `json:"error,omitempty"`
}

func (res EntityListResponse) Err() error {
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

type EntityList struct {
	Entities []Entity `json:"entities"`
	Error    error    `json:"error,omitempty"`
}

func (res EntityList) Err() error {
	return res.Error
}

func (res EntityList) Type() rdb.ResultType {
	return rdb.ResultTypeEntityList
}

func (res *EntityList) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(EntityListResponse{
		Entities:   res.Entities,
		ResultType: res.Type(),
		Error:      errToStr(res.Error),
	})
}

// ----

type ModelInfoResponse struct {
	Version        string           `json:"version"`
	Labelset       string           `json:"labelset"`
	TrainedOn      string           `json:"trainedOn"`
	Provenance     model.Provenance `json:"provenance"`
	NumLabels      int              `json:"numLabels"`
	NumTransitions int              `json:"numTransitions"`
	NumFeatures    int              `json:"numFeatures"`
	HasCalibration bool             `json:"hasCalibration"`
	ResultType     rdb.ResultType   `json:"resultType"`
	Error          string           `json:"error,omitempty"`
}

func (res ModelInfoResponse) Err() error {
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

type ModelInfo struct {
	Version        string           `json:"version"`
	Labelset       string           `json:"labelset"`
	TrainedOn      string           `json:"trainedOn"`
	Provenance     model.Provenance `json:"provenance"`
	NumLabels      int              `json:"numLabels"`
	NumTransitions int              `json:"numTransitions"`
	NumFeatures    int              `json:"numFeatures"`
	HasCalibration bool             `json:"hasCalibration"`
	Error          error            `json:"error,omitempty"`
}

func (res ModelInfo) Err() error {
	return res.Error
}

func (res ModelInfo) Type() rdb.ResultType {
	return rdb.ResultTypeModelInfo
}

func (res *ModelInfo) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(ModelInfoResponse{
		Version:        res.Version,
		Labelset:       res.Labelset,
		TrainedOn:      res.TrainedOn,
		Provenance:     res.Provenance,
		NumLabels:      res.NumLabels,
		NumTransitions: res.NumTransitions,
		NumFeatures:    res.NumFeatures,
		HasCalibration: res.HasCalibration,
		ResultType:     res.Type(),
		Error:          errToStr(res.Error),
	})
}

// ----

type ErrorResult struct {
	Func  string `json:"func"`
	Error string `json:"error"`
}

func (res ErrorResult) Err() error {
	if res.Error != "" {
		return errors.New(res.Error)
	}
	return nil
}

func (res ErrorResult) Type() rdb.ResultType {
	return rdb.ResultTypeError
}

// ----

// DeserializeValue decodes a worker result payload into the expected
// concrete type. A result of type `error` is turned into a plain
// error no matter which type the caller expected.
func DeserializeValue[T any](w *rdb.WorkerResult, expected rdb.ResultType) (T, error) {
	var ans T
	if w.ResultType == rdb.ResultTypeError {
		var errResult ErrorResult
		if err := sonic.Unmarshal(w.Value, &errResult); err != nil {
			return ans, fmt.Errorf("failed to decode error result: %w", err)
		}
		return ans, errResult.Err()
	}
	if w.ResultType != expected {
		return ans, fmt.Errorf("unexpected result type %s (expected %s)", w.ResultType, expected)
	}
	if err := sonic.Unmarshal(w.Value, &ans); err != nil {
		return ans, fmt.Errorf("failed to decode %s result: %w", expected, err)
	}
	return ans, nil
}

func DeserializeParsedSentence(w *rdb.WorkerResult) (ParsedSentenceResponse, error) {
	return DeserializeValue[ParsedSentenceResponse](w, rdb.ResultTypeParsedSentence)
}

func DeserializeTokenizedText(w *rdb.WorkerResult) (TokenizedTextResponse, error) {
	return DeserializeValue[TokenizedTextResponse](w, rdb.ResultTypeTokenizedText)
}

func DeserializeEntityList(w *rdb.WorkerResult) (EntityListResponse, error) {
	return DeserializeValue[EntityListResponse](w, rdb.ResultTypeEntityList)
}

func DeserializeModelInfo(w *rdb.WorkerResult) (ModelInfoResponse, error) {
	return DeserializeValue[ModelInfoResponse](w, rdb.ResultTypeModelInfo)
}
