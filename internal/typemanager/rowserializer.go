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

package typemanager

import (
	"github.com/datakettle/rowset-serializer/internal/logging"
	"github.com/datakettle/rowset-serializer/spi/coltypes"
	"github.com/datakettle/rowset-serializer/spi/encoding"
	"github.com/datakettle/rowset-serializer/spi/rowset"
	"github.com/datakettle/rowset-serializer/spi/schema"
)

type rowSerializer struct {
	typeManager coltypes.TypeManager
	logger      *logging.Logger
}

func NewRowSerializer(
	typeManager coltypes.TypeManager,
) (coltypes.RowSerializer, error) {

	logger, err := logging.NewLogger("RowSerializer")
	if err != nil {
		return nil, err
	}

	return &rowSerializer{
		typeManager: typeManager,
		logger:      logger,
	}, nil
}

// Serialize assembles one row into an ordered JSON object,
// walking the row's columns in their native order. Row columns
// without a matching descriptor are omitted entirely, never
// emitted as null. The first decode failure aborts the whole
// row; no partial row output is produced.
func (rs *rowSerializer) Serialize(
	row rowset.Row, descriptors schema.Columns,
) (*encoding.Object, error) {

	object := encoding.NewObject()
	for index, name := range row.ColumnNames() {
		column, present := descriptors.Lookup(name)
		if !present {
			rs.logger.Tracef("omitting column '%s' without descriptor", name)
			continue
		}

		rawValue := row.RawValue(index)
		if rawValue.IsNull() {
			// NULL decodes to JSON null irrespective of the declared type
			object.Put(name, nil)
			continue
		}

		strategy := rs.typeManager.ResolveTypeLabel(column.TypeLabel())
		converter := rs.typeManager.Converter(strategy)

		value, err := converter(strategy, rawValue.Value())
		if err != nil {
			return nil, coltypes.NewSerializationError(
				coltypes.NewDecodeError(name, column.TypeLabel(), strategy, err),
			)
		}
		object.Put(name, value)
	}
	return object, nil
}
