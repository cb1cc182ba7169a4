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

// Package worker implements the job-processing side of the service.
// A worker blocks on the Redis queue, runs parsing functions against
// its loaded model and publishes results back.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"udparse/model"
	"udparse/parser"
	"udparse/rdb"
	"udparse/rdb/results"
	"udparse/uderror"
)

const (
	DefaultTickerInterval = 2 * time.Second
)

type jobLogger interface {
	Log(rec rdb.JobLog)
}

type Worker struct {
	ID             string
	messages       <-chan *redis.Message
	radapter       *rdb.Adapter
	ticker         time.Ticker
	jobLogger      jobLogger
	currJobLog     *rdb.JobLog
	parser         *parser.Parser
	mdl            *model.Model
	maxSentenceLen int
}

func (w *Worker) publishResult(res rdb.FuncResult, channel string, procBegin time.Time) error {
	ans, err := rdb.CreateWorkerResult(res)
	if err != nil {
		return err
	}
	ans.ProcBegin = procBegin
	ans.ProcEnd = time.Now()

	if w.currJobLog != nil {
		w.currJobLog.End = ans.ProcEnd
		w.currJobLog.Err = res.Err()
		w.jobLogger.Log(*w.currJobLog)
		w.currJobLog = nil
	}
	return w.radapter.PublishResult(channel, ans)
}

func (w *Worker) sendPublishingErr(query rdb.Query, err error) {
	res := &results.ErrorResult{Func: query.Func, Error: err.Error()}
	if err := w.publishResult(res, query.Channel, time.Now()); err != nil {
		log.Error().Err(err).Msg("failed to publish general publishing error")
	}
}

func (w *Worker) runQueryProtected(query rdb.Query) (ansErr error) {
	procBegin := time.Now()
	defer func() {
		if r := recover(); r != nil {
			ansErr = uderror.RecoveredError{Msg: uderror.PanicValueToErr(r).Error()}
			return
		}
	}()
	switch query.Func {
	case "parseSentence":
		var args rdb.ParseSentenceArgs
		if err := json.Unmarshal(query.Args, &args); err != nil {
			return err
		}
		ans := w.parseSentence(args)
		if err := w.publishResult(&ans, query.Channel, procBegin); err != nil {
			w.sendPublishingErr(query, err)
			return err
		}
	case "tokenizeText":
		var args rdb.TokenizeTextArgs
		if err := json.Unmarshal(query.Args, &args); err != nil {
			return err
		}
		ans := w.tokenizeText(args)
		if err := w.publishResult(&ans, query.Channel, procBegin); err != nil {
			w.sendPublishingErr(query, err)
			return err
		}
	case "extractEntities":
		var args rdb.ExtractEntitiesArgs
		if err := json.Unmarshal(query.Args, &args); err != nil {
			return err
		}
		ans := w.extractEntities(args)
		if err := w.publishResult(&ans, query.Channel, procBegin); err != nil {
			w.sendPublishingErr(query, err)
			return err
		}
	case "modelInfo":
		var args rdb.ModelInfoArgs
		if err := json.Unmarshal(query.Args, &args); err != nil {
			return err
		}
		ans := w.modelInfo(args)
		if err := w.publishResult(&ans, query.Channel, procBegin); err != nil {
			w.sendPublishingErr(query, err)
			return err
		}
	default:
		ans := &results.ErrorResult{Error: fmt.Sprintf("unknown query function: %s", query.Func)}
		if err := w.publishResult(ans, query.Channel, procBegin); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) tryNextQuery() error {

	time.Sleep(time.Duration(rand.Intn(40)) * time.Millisecond)
	query, err := w.radapter.DequeueQuery()
	if err == rdb.ErrorEmptyQueue {
		return nil

	} else if err != nil {
		return err
	}
	log.Debug().
		Str("channel", query.Channel).
		Str("func", query.Func).
		Msg("received query")

	isActive, err := w.radapter.SomeoneListens(query)
	if err != nil {
		return err
	}
	if !isActive {
		log.Warn().
			Str("func", query.Func).
			Str("channel", query.Channel).
			Msg("worker found an inactive query")
		return nil
	}

	w.currJobLog = &rdb.JobLog{
		WorkerID: w.ID,
		Func:     query.Func,
		Begin:    time.Now(),
	}

	err = w.runQueryProtected(query)
	var rcvErr uderror.RecoveredError
	if errors.As(err, &rcvErr) {
		ans := &results.ErrorResult{
			Error: fmt.Sprintf("worker panicked: %s", rcvErr.Error()),
			Func:  query.Func,
		}
		if err := w.publishResult(ans, query.Channel, time.Now()); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) Start(ctx context.Context) {
	log.Info().Str("workerId", w.ID).Msg("starting worker")
	go func() {
		for {
			select {
			case <-w.ticker.C:
				w.tryNextQuery()
			case <-ctx.Done():
				log.Info().Msg("worker exiting")
				return
			case msg := <-w.messages:
				if msg.Payload == rdb.MsgNewQuery {
					w.tryNextQuery()
				}
			}
		}
	}()
}

func (w *Worker) Stop(ctx context.Context) error {
	log.Warn().Str("workerId", w.ID).Msg("shutting down worker")
	w.ticker.Stop()
	return nil
}

func NewWorker(
	workerID string,
	radapter *rdb.Adapter,
	messages <-chan *redis.Message,
	jobLogger jobLogger,
	mdl *model.Model,
	calibration *parser.CalibrationTable,
	maxSentenceLen int,
) *Worker {
	return &Worker{
		ID:             workerID,
		radapter:       radapter,
		messages:       messages,
		ticker:         *time.NewTicker(DefaultTickerInterval),
		jobLogger:      jobLogger,
		parser:         parser.NewParser(mdl, calibration),
		mdl:            mdl,
		maxSentenceLen: maxSentenceLen,
	}
}
