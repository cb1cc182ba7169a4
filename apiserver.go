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
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"udparse/cnf"
	"udparse/general"
	"udparse/handlers"
	"udparse/monitoring"
	"udparse/rdb"
)

type apiServer struct {
	server    *http.Server
	conf      *cnf.Conf
	radapter  *rdb.Adapter
	jobLogger *monitoring.WorkerJobLogger
	version   general.VersionInfo
}

func (api *apiServer) Start(ctx context.Context) {
	if !api.conf.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(additionalLogEvents())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	engine.Use(CORSMiddleware(api.conf))
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	hActions := handlers.NewActions(api.radapter, api.conf.Parser.MaxSentenceLen)

	engine.GET("/", func(ctx *gin.Context) {
		uniresp.WriteJSONResponse(ctx.Writer, map[string]any{
			"name":    "UDPARSE - a dependency parsing server",
			"version": api.version,
		})
	})

	engine.POST(
		"/parse", hActions.ParseSentence)

	engine.POST(
		"/tokenize", hActions.Tokenize)

	engine.POST(
		"/entities", hActions.ExtractEntities)

	engine.GET(
		"/model-info", hActions.ModelInfo)

	mActions := monitoring.NewActions(api.jobLogger)
	protected := engine.Group("/monitoring").Use(AuthRequired(api.conf))

	protected.GET(
		"/workers-load", mActions.WorkersLoad)

	protected.GET(
		"/recent-jobs", mActions.RecentJobs)

	log.Info().Msgf("starting to listen at %s:%d", api.conf.ListenAddress, api.conf.ListenPort)
	api.server = &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.ListenPort),
		WriteTimeout: time.Duration(api.conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(api.conf.ServerReadTimeoutSecs) * time.Second,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

}

func (s *apiServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down UDPARSE HTTP API server")
	return s.server.Shutdown(ctx)
}

func runApiServer(conf *cnf.Conf, version general.VersionInfo) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	radapter := rdb.NewAdapter(conf.Redis)
	err := radapter.TestConnection(redisConnectionTestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
		return
	}

	var statusWriter monitoring.StatusWriter
	if conf.Monitoring != nil {
		statusWriter, err = monitoring.NewTimescaleDBWriter(
			ctx, conf.Monitoring.DB, conf.TimezoneLocation())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize monitoring status writer")
			return
		}

	} else {
		statusWriter = &monitoring.NullWriter{}
		log.Warn().Msg("monitoring database not configured, job stats will not be persisted")
	}
	jobLogger := monitoring.NewWorkerJobLogger(statusWriter)

	server := &apiServer{
		conf:      conf,
		radapter:  radapter,
		jobLogger: jobLogger,
		version:   version,
	}

	services := []service{statusWriter, jobLogger, server}
	for _, m := range services {
		m.Start(ctx)
	}

	// job log records published by workers feed the monitoring endpoints
	go func() {
		for jl := range radapter.JobLogs(ctx) {
			jobLogger.Log(jl)
		}
	}()

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
