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

package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"udparse/cnf"
	"udparse/model"
	"udparse/parser"
	"udparse/rdb"
	"udparse/worker"
)

func getWorkerID() (workerID string) {
	workerID = getEnv("WORKER_ID")
	if workerID == "" {
		workerID = strconv.Itoa(os.Getpid())
	}
	return
}

// -------

// queueJobLogger broadcasts finished jobs via Redis so the API
// server can aggregate load data of the whole worker pool.
type queueJobLogger struct {
	radapter *rdb.Adapter
}

func (q *queueJobLogger) Log(rec rdb.JobLog) {
	q.radapter.PublishJobLog(rec)
}

// -------

func runWorker(conf *cnf.Conf) {
	workerID := getWorkerID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mdl, err := model.Load(conf.Parser.ModelPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load parsing model")
		return
	}
	log.Info().
		Str("version", mdl.Version).
		Str("labelset", mdl.Labelset).
		Str("trainedOn", mdl.TrainedOn).
		Float64("UAS", mdl.Provenance.UAS).
		Float64("LAS", mdl.Provenance.LAS).
		Msg("loaded parsing model")

	var calibration *parser.CalibrationTable
	if conf.Parser.CalibrationPath != "" {
		calibration, err = parser.LoadCalibration(conf.Parser.CalibrationPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load calibration table")
			return
		}
		log.Info().
			Int("numBins", len(calibration.Bins)).
			Msg("loaded calibration table")
	}

	radapter := rdb.NewAdapter(conf.Redis)
	err = radapter.TestConnection(redisConnectionTestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
		return
	}

	ch := radapter.Subscribe()
	wrk := worker.NewWorker(
		workerID,
		radapter,
		ch,
		&queueJobLogger{radapter: radapter},
		mdl,
		calibration,
		conf.Parser.MaxSentenceLen,
	)

	services := []service{wrk}
	for _, m := range services {
		m.Start(ctx)
	}
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range services {
		wg.Add(1)
		go func(srv service) {
			defer wg.Done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Type("service", srv).Msg("Error shutting down service")
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out")
	}
}
