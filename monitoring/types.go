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

package monitoring

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	"udparse/rdb"
)

// ---

type WorkerLoad struct {
	NumJobs       int
	TotalTimeSecs float64
	NumErrors     int
	FirstUpdate   time.Time
	LastUpdate    time.Time
	NumWorkers    int
}

// TotalSpan returns time span covered by the load info
func (wl WorkerLoad) TotalSpan() time.Duration {
	return wl.LastUpdate.Sub(wl.FirstUpdate)
}

func (wl WorkerLoad) AvgLoad() float64 {
	if wl.TotalTimeSecs == 0 || wl.NumWorkers == 0 || wl.TotalSpan() == 0 {
		return 0
	}
	return wl.TotalTimeSecs / wl.TotalSpan().Seconds() / float64(wl.NumWorkers)
}

func (wl WorkerLoad) MarshalJSON() ([]byte, error) {
	var t0, t1 *time.Time
	if !wl.FirstUpdate.IsZero() {
		t0 = &wl.FirstUpdate
	}
	if !wl.LastUpdate.IsZero() {
		t1 = &wl.LastUpdate
	}
	return sonic.Marshal(
		struct {
			NumJobs       int        `json:"numJobs"`
			TotalTimeSecs float64    `json:"totalTimeSecs"`
			NumErrors     int        `json:"numErrors"`
			FirstUpdate   *time.Time `json:"firstUpdate,omitempty"`
			LastUpdate    *time.Time `json:"lastUpdate,omitempty"`
			AvgLoad       float64    `json:"avgLoad"`
		}{
			NumJobs:       wl.NumJobs,
			TotalTimeSecs: wl.TotalTimeSecs,
			NumErrors:     wl.NumErrors,
			FirstUpdate:   t0,
			LastUpdate:    t1,
			AvgLoad:       wl.AvgLoad(),
		},
	)
}

// ---

// WorkersLoad maps worker IDs to their cumulative load records.
type WorkersLoad map[string]WorkerLoad

// SumLoad merges all per-worker records into a single summary.
func (wsl WorkersLoad) SumLoad() WorkerLoad {
	var ans WorkerLoad
	for _, wl := range wsl {
		ans.NumJobs += wl.NumJobs
		ans.TotalTimeSecs += wl.TotalTimeSecs
		ans.NumErrors += wl.NumErrors
		if ans.FirstUpdate.IsZero() || wl.FirstUpdate.Before(ans.FirstUpdate) {
			ans.FirstUpdate = wl.FirstUpdate
		}
		if wl.LastUpdate.After(ans.LastUpdate) {
			ans.LastUpdate = wl.LastUpdate
		}
	}
	ans.NumWorkers = len(wsl)
	return ans
}

func (wsl WorkersLoad) cleanOldRecords() {
	for workerID, wl := range wsl {
		if time.Since(wl.LastUpdate) > StaleWorkerLoadTTL {
			delete(wsl, workerID)
		}
	}
}

// ---

// StatusWriter is an optional sink for finished job records
// (typically a TimescaleDB writer). NullWriter is used when no
// monitoring database is configured.
type StatusWriter interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Write(item rdb.JobLog)
}

type NullWriter struct {
}

func (w *NullWriter) Start(ctx context.Context) {
}

func (w *NullWriter) Stop(ctx context.Context) error {
	return nil
}

func (w *NullWriter) Write(item rdb.JobLog) {
}
