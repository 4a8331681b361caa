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

package sidechannel

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-errors/errors"
	"github.com/samber/lo"
	_ "modernc.org/sqlite"

	"github.com/datakettle/rowset-serializer/internal/functional"
	"github.com/datakettle/rowset-serializer/internal/logging"
	"github.com/datakettle/rowset-serializer/spi/rowset"
	"github.com/datakettle/rowset-serializer/spi/schema"
	spisidechannel "github.com/datakettle/rowset-serializer/spi/sidechannel"
)

var _ spisidechannel.SideChannel = (*SqliteSideChannel)(nil)

// SqliteSideChannel implements the side channel contract on a
// SQLite database file, introspecting table schemas through
// PRAGMA table_info and streaming query results as rows
type SqliteSideChannel struct {
	logger *logging.Logger
	db     *sql.DB
}

func NewSqliteSideChannel(
	path string,
) (*SqliteSideChannel, error) {

	logger, err := logging.NewLogger("SideChannel")
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, 0)
	}

	logger.Debugf("opened database '%s'", path)
	return &SqliteSideChannel{
		logger: logger,
		db:     db,
	}, nil
}

// ReadTableSchema introspects the given table and returns its
// descriptor set. The introspection query reports one line per
// column: ordinal, name, declared type label, not-null flag,
// default value literal and primary key flag.
func (sc *SqliteSideChannel) ReadTableSchema(
	table string,
) (schema.Columns, error) {

	query := fmt.Sprintf(
		"PRAGMA table_info('%s')", strings.ReplaceAll(table, "'", "''"),
	)

	rows, err := sc.db.Query(query)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	defer rows.Close()

	columns := make([]schema.Column, 0)
	for rows.Next() {
		var (
			ordinal      int
			name         string
			typeLabel    string
			notNull      int
			defaultValue sql.NullString
			primaryKey   int
		)

		if err := rows.Scan(
			&ordinal, &name, &typeLabel, &notNull, &defaultValue, &primaryKey,
		); err != nil {
			return nil, errors.Wrap(err, 0)
		}

		var defaultValueLiteral *string
		if defaultValue.Valid {
			defaultValueLiteral = &defaultValue.String
		}

		columns = append(columns, schema.NewColumn(
			ordinal, name, typeLabel, notNull == 0,
			primaryKey > 0, defaultValueLiteral,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, 0)
	}

	if len(columns) == 0 {
		return nil, errors.Errorf("table '%s' does not exist", table)
	}

	sc.logger.Debugf("read schema of table '%s' with %d column(s)", table, len(columns))
	return schema.NewDescriptorSet(columns)
}

// QueryRows executes the given query and streams the resulting
// rows into the sink, in result order
func (sc *SqliteSideChannel) QueryRows(
	query string, sink spisidechannel.RowSink,
) error {

	rows, err := sc.db.Query(query)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return errors.Wrap(err, 0)
	}

	for rows.Next() {
		holders := make([]any, len(names))
		for i := range holders {
			holders[i] = new(any)
		}

		if err := rows.Scan(holders...); err != nil {
			return errors.Wrap(err, 0)
		}

		values := lo.Map(holders, functional.MappingTransformer(func(holder any) rowset.RawValue {
			return rowset.NewRawValue(*(holder.(*any)))
		}))

		row, err := rowset.NewTupleRow(names, values)
		if err != nil {
			return errors.Wrap(err, 0)
		}

		if err := sink(row); err != nil {
			return errors.Wrap(err, 0)
		}
	}
	if rows.Err() != nil {
		return errors.Wrap(rows.Err(), 0)
	}
	return nil
}

// Execute runs a statement which doesn't produce a result set,
// such as CREATE TABLE or INSERT
func (sc *SqliteSideChannel) Execute(
	statement string, args ...any,
) error {

	if _, err := sc.db.Exec(statement, args...); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

func (sc *SqliteSideChannel) Close() error {
	return sc.db.Close()
}
