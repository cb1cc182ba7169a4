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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udparse/rdb"
)

func startedLogger(t *testing.T) *WorkerJobLogger {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	wl := NewWorkerJobLogger(&NullWriter{})
	wl.Start(ctx)
	return wl
}

func jobRec(workerID string, dur time.Duration, err error) rdb.JobLog {
	begin := time.Now().Add(-dur)
	return rdb.JobLog{
		WorkerID: workerID,
		Func:     "parseSentence",
		Begin:    begin,
		End:      begin.Add(dur),
		Err:      err,
	}
}

func TestLoggerAccumulatesLoad(t *testing.T) {
	wl := startedLogger(t)
	wl.Log(jobRec("worker-1", time.Second, nil))
	wl.Log(jobRec("worker-1", 2*time.Second, errors.New("failed")))
	wl.Log(jobRec("worker-2", time.Second, nil))

	total := wl.TotalLoad()
	assert.Equal(t, 3, total.NumJobs)
	assert.Equal(t, 1, total.NumErrors)
	assert.Equal(t, 2, total.NumWorkers)
	assert.InDelta(t, 4.0, total.TotalTimeSecs, 0.01)

	w1, err := wl.TotalWorkerLoad("worker-1")
	require.NoError(t, err)
	assert.Equal(t, 2, w1.NumJobs)
	assert.Equal(t, 1, w1.NumErrors)
}

func TestLoggerUnknownWorker(t *testing.T) {
	wl := startedLogger(t)
	_, err := wl.TotalWorkerLoad("no-such-worker")
	assert.Equal(t, ErrWorkerNotFound, err)
}

func TestLoggerRecentRecords(t *testing.T) {
	wl := startedLogger(t)
	wl.Log(jobRec("worker-1", time.Second, nil))
	wl.Log(jobRec("worker-2", time.Second, nil))
	recs := wl.RecentRecords()
	require.Len(t, recs, 2)
	assert.Equal(t, "worker-1", recs[0].WorkerID)
	assert.Equal(t, "worker-2", recs[1].WorkerID)

	recent := wl.RecentLoad()
	assert.Equal(t, 2, recent.NumJobs)
	assert.Equal(t, 2, recent.NumWorkers)
}

func TestSumLoadEmpty(t *testing.T) {
	var wsl WorkersLoad
	sum := wsl.SumLoad()
	assert.Equal(t, 0, sum.NumJobs)
	assert.Equal(t, 0.0, sum.AvgLoad())
}
