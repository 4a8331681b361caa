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

package rowset

import (
	"github.com/go-errors/errors"
)

// Row is the minimal capability any storage backend has to
// provide for row serialization: enumerate the columns in
// their native order and hand out raw values by position.
// Nullness is reported through RawValue itself.
type Row interface {
	// ColumnNames returns the column names in the row's
	// native order
	ColumnNames() []string
	// RawValue returns the raw encoded value at the given
	// position in the row's native order
	RawValue(index int) RawValue
}

// TupleRow is the in-memory Row implementation used by the
// sidechannel and by synthetic result shapes
type TupleRow struct {
	names  []string
	values []RawValue
}

func NewTupleRow(
	names []string, values []RawValue,
) (*TupleRow, error) {

	if len(names) != len(values) {
		return nil, errors.Errorf(
			"row has %d column names but %d values", len(names), len(values),
		)
	}
	return &TupleRow{
		names:  names,
		values: values,
	}, nil
}

func (tr *TupleRow) ColumnNames() []string {
	return tr.names
}

func (tr *TupleRow) RawValue(
	index int,
) RawValue {

	return tr.values[index]
}
