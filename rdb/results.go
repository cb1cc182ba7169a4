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

import (
	"encoding/json"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

const (
	ResultTypeParsedSentence ResultType = "parsedSentence"
	ResultTypeTokenizedText  ResultType = "tokenizedText"
	ResultTypeEntityList     ResultType = "entityList"
	ResultTypeModelInfo      ResultType = "modelInfo"
	ResultTypeError          ResultType = "error"
)

type ResultType string

func (rt ResultType) String() string {
	return string(rt)
}

// ----------------

// FuncResult is anything a worker function can produce. The Err
// value distinguishes user-caused failures (bad input) from normal
// answers; it travels to the client serialized inside the value.
type FuncResult interface {
	Err() error
	Type() ResultType
}

// WorkerResult is the envelope a worker stores to Redis. The payload
// is kept serialized so the API side can pass it through without
// knowing the concrete type.
type WorkerResult struct {
	ID           string          `json:"id"`
	ResultType   ResultType      `json:"resultType"`
	Value        json.RawMessage `json:"value"`
	HasUserError bool            `json:"hasUserError"`
	ProcBegin    time.Time       `json:"procBegin"`
	ProcEnd      time.Time       `json:"procEnd"`
}

func (wr *WorkerResult) AttachValue(value FuncResult) error {
	rawValue, err := sonic.Marshal(value)
	if err != nil {
		return err
	}
	wr.ResultType = value.Type()
	wr.Value = rawValue
	wr.HasUserError = value.Err() != nil
	return nil
}

// ProcTime returns the job processing time in seconds.
func (wr *WorkerResult) ProcTime() float64 {
	return wr.ProcEnd.Sub(wr.ProcBegin).Seconds()
}

func CreateWorkerResult(value FuncResult) (*WorkerResult, error) {
	ans := &WorkerResult{ID: uuid.New().String()}
	if err := ans.AttachValue(value); err != nil {
		return nil, err
	}
	return ans, nil
}

// ----------------

// JobLog is a single worker job record published for monitoring.
type JobLog struct {
	WorkerID string    `json:"workerId"`
	Func     string    `json:"func"`
	Begin    time.Time `json:"begin"`
	End      time.Time `json:"end"`
	Err      error     `json:"error"`
}

// TimeSpent returns the duration of the job in seconds.
func (jl JobLog) TimeSpent() float64 {
	return jl.End.Sub(jl.Begin).Seconds()
}

func (jl JobLog) MarshalJSON() ([]byte, error) {
	var errStr string
	if jl.Err != nil {
		errStr = jl.Err.Error()
	}
	return sonic.Marshal(struct {
		WorkerID string    `json:"workerId"`
		Func     string    `json:"func"`
		Begin    time.Time `json:"begin"`
		End      time.Time `json:"end"`
		Err      string    `json:"error,omitempty"`
	}{
		WorkerID: jl.WorkerID,
		Func:     jl.Func,
		Begin:    jl.Begin,
		End:      jl.End,
		Err:      errStr,
	})
}

func (jl *JobLog) UnmarshalJSON(data []byte) error {
	var tmp struct {
		WorkerID string    `json:"workerId"`
		Func     string    `json:"func"`
		Begin    time.Time `json:"begin"`
		End      time.Time `json:"end"`
		Err      string    `json:"error"`
	}
	if err := sonic.Unmarshal(data, &tmp); err != nil {
		return err
	}
	jl.WorkerID = tmp.WorkerID
	jl.Func = tmp.Func
	jl.Begin = tmp.Begin
	jl.End = tmp.End
	if tmp.Err != "" {
		jl.Err = jobError(tmp.Err)
	}
	return nil
}

// jobError restores an error carried over the wire. The original
// type is lost, only the message survives.
type jobError string

func (e jobError) Error() string {
	return string(e)
}
