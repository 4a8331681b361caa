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
	"github.com/datakettle/rowset-serializer/spi/rowset"
	"github.com/datakettle/rowset-serializer/spi/schema"
)

// SideChannel provides access to the storage engine for schema
// introspection and query execution. Both concerns live outside
// the serialization core; the core only consumes the descriptor
// sets and rows a side channel produces.
type SideChannel interface {
	// ReadTableSchema introspects the given table and returns
	// its descriptor set
	ReadTableSchema(table string) (schema.Columns, error)
	// QueryRows executes the given query and streams the
	// resulting rows into the sink, in result order
	QueryRows(query string, sink RowSink) error
	// Close closes the underlying database connection
	Close() error
}

// RowSink consumes one row at a time while a query result is
// being streamed
type RowSink func(row rowset.Row) error
