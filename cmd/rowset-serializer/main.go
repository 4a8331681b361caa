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

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/urfave/cli"

	"github.com/datakettle/rowset-serializer/internal/logging"
	"github.com/datakettle/rowset-serializer/internal/sidechannel"
	"github.com/datakettle/rowset-serializer/internal/stats"
	"github.com/datakettle/rowset-serializer/internal/supporting"
	"github.com/datakettle/rowset-serializer/internal/typemanager"
	"github.com/datakettle/rowset-serializer/internal/version"
	spiconfig "github.com/datakettle/rowset-serializer/spi/config"
	"github.com/datakettle/rowset-serializer/spi/encoding"
	"github.com/datakettle/rowset-serializer/spi/rowset"
	"github.com/datakettle/rowset-serializer/spi/schema"
)

var (
	configurationFile string
	verbose           bool
	withCaller        bool
	versionOnly       bool
	query             string
	labels            cli.StringSlice
)

func main() {
	app := &cli.App{
		Name:      version.BinName,
		Usage:     "Serializes SQLite query results into JSON documents, guided by declared column type labels",
		ArgsUsage: "<database> [table]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config,c",
				Value:       "",
				Usage:       "Load configuration from `FILE`",
				Destination: &configurationFile,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "Show verbose output",
				Destination: &verbose,
			},
			&cli.BoolFlag{
				Name:        "caller",
				Usage:       "Collect caller information for log messages",
				Destination: &withCaller,
			},
			&cli.BoolFlag{
				Name:        "version",
				Usage:       "Prints the version and exits",
				Destination: &versionOnly,
			},
			&cli.StringFlag{
				Name:        "query,q",
				Usage:       "Serialize the result of `QUERY` instead of a full table scan",
				Destination: &query,
			},
			&cli.StringSliceFlag{
				Name:  "label,l",
				Usage: "Synthetic column descriptor as `NAME=TYPELABEL`, required per result column when --query is used without a table",
				Value: &labels,
			},
		},
		Action: start,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func start(c *cli.Context) error {
	fmt.Fprintf(os.Stderr, "%s version %s (git revision %s; branch %s)\n",
		color.Bold.Render(version.BinName), version.Version, version.CommitHash, version.Branch,
	)

	if versionOnly {
		return nil
	}

	logging.WithCaller = withCaller
	logging.WithVerbose = verbose

	config := &spiconfig.Config{}

	// No configuration file set? Try env variable!
	if configurationFile == "" {
		if cf, present := os.LookupEnv("ROWSET_SERIALIZER_CONFIG"); present {
			fmt.Fprintf(os.Stderr, "Using configuration file from environment variable\n")
			configurationFile = cf
		}
	}

	if configurationFile != "" {
		f, err := os.Open(configurationFile)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("Configuration file couldn't be opened: %v\n", err), 3)
		}

		b, err := io.ReadAll(f)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("Configuration file couldn't be read: %v\n", err), 4)
		}

		tomlConfig := filepath.Ext(strings.ToLower(configurationFile)) == ".toml"
		if err := spiconfig.Unmarshall(b, config, tomlConfig); err != nil {
			return cli.NewExitError(fmt.Sprintf("Configuration file couldn't be decoded: %v\n", err), 5)
		}
	}

	if err := logging.InitializeLogging(config, true); err != nil {
		return err
	}

	databasePath := spiconfig.GetOrDefault(config, spiconfig.PropertyDatabasePath, "")
	table := spiconfig.GetOrDefault(config, spiconfig.PropertyDatabaseTable, "")
	if c.NArg() > 0 {
		databasePath = c.Args().Get(0)
	}
	if c.NArg() > 1 {
		table = c.Args().Get(1)
	}
	if query == "" {
		query = spiconfig.GetOrDefault(config, spiconfig.PropertyDatabaseQuery, "")
	}

	if databasePath == "" {
		return cli.NewExitError("Database path required", 6)
	}
	if table == "" && query == "" {
		return cli.NewExitError("Either a table name or a query required", 7)
	}

	sideChannel, err := sidechannel.NewSqliteSideChannel(databasePath)
	if err != nil {
		return supporting.AdaptErrorWithMessage(err, "Failed to open database", 8)
	}
	defer sideChannel.Close()

	descriptors, err := collectDescriptors(sideChannel, table)
	if err != nil {
		return supporting.AdaptErrorWithMessage(err, "Failed to collect column descriptors", 9)
	}

	if query == "" {
		query = fmt.Sprintf("SELECT * FROM '%s'", strings.ReplaceAll(table, "'", "''"))
	}

	typeManager, err := typemanager.NewTypeManager()
	if err != nil {
		return supporting.AdaptError(err, 10)
	}

	serializer, err := typemanager.NewRowSerializer(typeManager)
	if err != nil {
		return supporting.AdaptError(err, 10)
	}

	statsService, err := stats.NewStatsService(config)
	if err != nil {
		return supporting.AdaptError(err, 11)
	}
	if err := statsService.Start(); err != nil {
		return supporting.AdaptError(err, 11)
	}
	defer statsService.Stop()

	documents := make([]any, 0)
	err = sideChannel.QueryRows(query, func(row rowset.Row) error {
		document, err := serializer.Serialize(row, descriptors)
		if err != nil {
			statsService.CountFailedRow()
			return err
		}
		statsService.CountSerializedRow()
		documents = append(documents, document)
		return nil
	})
	if err != nil {
		return supporting.AdaptErrorWithMessage(err, "Row serialization failed", 12)
	}

	encoder := encoding.NewJsonEncoderWithConfig(config)
	data, err := encoder.Marshal(documents)
	if err != nil {
		return supporting.AdaptError(err, 13)
	}

	fmt.Println(string(data))
	return nil
}

// collectDescriptors reads the descriptor set from the table
// schema, or builds synthetic descriptors from --label flags
// for ad-hoc query result shapes
func collectDescriptors(
	sideChannel *sidechannel.SqliteSideChannel, table string,
) (schema.Columns, error) {

	if table != "" {
		return sideChannel.ReadTableSchema(table)
	}

	columns := make([]schema.Column, 0, len(labels.Value()))
	for ordinal, label := range labels.Value() {
		name, typeLabel, found := strings.Cut(label, "=")
		if !found {
			return nil, fmt.Errorf("malformed label definition '%s', expected NAME=TYPELABEL", label)
		}
		columns = append(columns, schema.NewSyntheticColumn(ordinal, name, typeLabel))
	}
	return schema.NewDescriptorSet(columns)
}
