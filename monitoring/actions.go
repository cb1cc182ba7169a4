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
	"net/http"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
)

type Actions struct {
	logger *WorkerJobLogger
}

// WorkersLoad reports either the load of a single worker (with the
// `worker` URL argument) or cumulative and recent load summaries of
// the whole pool.
func (a *Actions) WorkersLoad(ctx *gin.Context) {
	workerID := ctx.Request.URL.Query().Get("worker")
	if workerID != "" {
		load, err := a.logger.TotalWorkerLoad(workerID)
		if err == ErrWorkerNotFound {
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusNotFound)
			return

		} else if err != nil {
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
			return
		}
		uniresp.WriteJSONResponse(ctx.Writer, load)
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		map[string]WorkerLoad{
			"total":  a.logger.TotalLoad(),
			"recent": a.logger.RecentLoad(),
		},
	)
}

// RecentJobs lists the most recent worker jobs (up to the configured
// log size), oldest first.
func (a *Actions) RecentJobs(ctx *gin.Context) {
	uniresp.WriteJSONResponse(ctx.Writer, a.logger.RecentRecords())
}

func NewActions(logger *WorkerJobLogger) *Actions {
	ans := &Actions{
		logger: logger,
	}
	return ans
}
