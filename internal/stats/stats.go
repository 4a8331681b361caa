/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package stats

import (
	"context"
	"net/http"

	"github.com/go-errors/errors"
	"github.com/segmentio/stats/v4"
	"github.com/segmentio/stats/v4/prometheus"

	"github.com/datakettle/rowset-serializer/internal/logging"
	"github.com/datakettle/rowset-serializer/internal/version"
	"github.com/datakettle/rowset-serializer/spi/config"
)

// Service exposes row serialization counters through a
// Prometheus scrape endpoint. Disabled by default since
// one-shot CLI runs rarely need a metrics surface.
type Service struct {
	logger       *logging.Logger
	statsEnabled bool
	handler      *prometheus.Handler
	engine       *stats.Engine
	server       *http.Server
}

func NewStatsService(
	c *config.Config,
) (*Service, error) {

	logger, err := logging.NewLogger("StatsService")
	if err != nil {
		return nil, err
	}

	statsHandler := &prometheus.Handler{
		TrimPrefix: version.BinName,
	}

	statsEnabled := config.GetOrDefault(c, config.PropertyStatsEnabled, false)
	address := config.GetOrDefault(c, config.PropertyStatsAddress, ":8081")

	engine := stats.NewEngine(version.BinName, statsHandler)

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", statsHandler.ServeHTTP)

	return &Service{
		logger:       logger,
		statsEnabled: statsEnabled,
		handler:      statsHandler,
		engine:       engine,
		server: &http.Server{
			Addr:    address,
			Handler: mux,
		},
	}, nil
}

// CountSerializedRow records one successfully serialized row
func (s *Service) CountSerializedRow() {
	s.engine.Incr("rows.serialized")
}

// CountFailedRow records one row aborted by a decode failure
func (s *Service) CountFailedRow() {
	s.engine.Incr("rows.failed")
}

func (s *Service) Start() error {
	if s.statsEnabled {
		go func() {
			err := s.server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				// Serialization keeps running without a metrics endpoint
				s.logger.Errorf("metrics endpoint failed: %s", err.Error())
			}
		}()
	}
	return nil
}

func (s *Service) Stop() error {
	s.engine.Flush()
	if s.statsEnabled {
		return s.server.Shutdown(context.Background())
	}
	return nil
}
