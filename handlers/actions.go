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

// Package handlers exposes the parsing service over HTTP. Each
// handler validates its input, hands the job to a worker through the
// Redis queue and waits for the result.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"

	"udparse/rdb"
	"udparse/rdb/results"
)

type Actions struct {
	radapter       *rdb.Adapter
	maxSentenceLen int
}

func NewActions(radapter *rdb.Adapter, maxSentenceLen int) *Actions {
	return &Actions{
		radapter:       radapter,
		maxSentenceLen: maxSentenceLen,
	}
}

// resultStatus picks an HTTP status for a finished worker result.
func resultStatus(rawResult *rdb.WorkerResult) int {
	if rawResult.HasUserError {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

type parseSentenceRequest struct {
	Tokens            []string `json:"tokens"`
	Tags              []string `json:"tags"`
	WithProbabilities bool     `json:"withProbabilities"`
}

func (a *Actions) validateSentence(tokens, tags []string) *uniresp.ActionError {
	if len(tokens) == 0 {
		aerr := uniresp.NewActionError("missing `tokens`")
		return &aerr
	}
	if len(tokens) != len(tags) {
		aerr := uniresp.NewActionError(
			"tokens and tags must be of the same length (%d vs %d)",
			len(tokens), len(tags),
		)
		return &aerr
	}
	if len(tokens) > a.maxSentenceLen {
		aerr := uniresp.NewActionError(
			"sentence too long: %d tokens (max %d)", len(tokens), a.maxSentenceLen)
		return &aerr
	}
	return nil
}

func (a *Actions) ParseSentence(ctx *gin.Context) {
	var req parseSentenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusBadRequest,
		)
		return
	}
	if err := a.validateSentence(req.Tokens, req.Tags); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer, *err, http.StatusUnprocessableEntity)
		return
	}
	args, err := json.Marshal(rdb.ParseSentenceArgs{
		Tokens:            req.Tokens,
		Tags:              req.Tags,
		WithProbabilities: req.WithProbabilities,
	})
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	wait, err := a.radapter.CacheResult(
		a.radapter.PublishQuery,
		rdb.Query{
			Func: "parseSentence",
			Args: args,
		},
	)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	rawResult := <-wait
	result, err := results.DeserializeParsedSentence(rawResult)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			resultStatus(rawResult),
		)
		return
	}
	if err := result.Err(); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			resultStatus(rawResult),
		)
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		result,
	)
}

type tokenizeRequest struct {
	Text string `json:"text"`
}

func (a *Actions) Tokenize(ctx *gin.Context) {
	var req tokenizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusBadRequest,
		)
		return
	}
	if req.Text == "" {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionError("missing `text`"),
			http.StatusUnprocessableEntity,
		)
		return
	}
	args, err := json.Marshal(rdb.TokenizeTextArgs{Text: req.Text})
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	wait, err := a.radapter.PublishQuery(rdb.Query{
		Func: "tokenizeText",
		Args: args,
	})
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	rawResult := <-wait
	result, err := results.DeserializeTokenizedText(rawResult)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			resultStatus(rawResult),
		)
		return
	}
	if err := result.Err(); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			resultStatus(rawResult),
		)
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		result,
	)
}

type extractEntitiesRequest struct {
	Tokens []string `json:"tokens"`
	Tags   []string `json:"tags"`
}

func (a *Actions) ExtractEntities(ctx *gin.Context) {
	var req extractEntitiesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusBadRequest,
		)
		return
	}
	if err := a.validateSentence(req.Tokens, req.Tags); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer, *err, http.StatusUnprocessableEntity)
		return
	}
	args, err := json.Marshal(rdb.ExtractEntitiesArgs{
		Tokens: req.Tokens,
		Tags:   req.Tags,
	})
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	wait, err := a.radapter.CacheResult(
		a.radapter.PublishQuery,
		rdb.Query{
			Func: "extractEntities",
			Args: args,
		},
	)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	rawResult := <-wait
	result, err := results.DeserializeEntityList(rawResult)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			resultStatus(rawResult),
		)
		return
	}
	if err := result.Err(); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			resultStatus(rawResult),
		)
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		result,
	)
}

func (a *Actions) ModelInfo(ctx *gin.Context) {
	args, err := json.Marshal(rdb.ModelInfoArgs{})
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	wait, err := a.radapter.PublishQuery(rdb.Query{
		Func: "modelInfo",
		Args: args,
	})
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			http.StatusInternalServerError,
		)
		return
	}
	rawResult := <-wait
	result, err := results.DeserializeModelInfo(rawResult)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			resultStatus(rawResult),
		)
		return
	}
	if err := result.Err(); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer,
			uniresp.NewActionErrorFrom(err),
			resultStatus(rawResult),
		)
		return
	}
	uniresp.WriteJSONResponse(
		ctx.Writer,
		result,
	)
}
