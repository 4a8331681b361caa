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

package coltypes

import (
	"fmt"

	"github.com/datakettle/rowset-serializer/spi/encoding"
	"github.com/datakettle/rowset-serializer/spi/rowset"
	"github.com/datakettle/rowset-serializer/spi/schema"
)

// DecodeStrategy is the closed set of decoding rules a type
// label can resolve to. Strategies are stateless and derived
// purely from the declared type label, which makes dispatching
// on the variant set exhaustive instead of re-parsing label
// strings per row.
type DecodeStrategy int

const (
	TextStrategy DecodeStrategy = iota
	Int32Strategy
	Int64Strategy
	DoubleStrategy
	BooleanStrategy
	UuidTextStrategy
	TimestampTextStrategy
	StructuredDataStrategy
	OpaqueBinaryStrategy
)

func (s DecodeStrategy) String() string {
	switch s {
	case TextStrategy:
		return "text"
	case Int32Strategy:
		return "int32"
	case Int64Strategy:
		return "int64"
	case DoubleStrategy:
		return "double"
	case BooleanStrategy:
		return "boolean"
	case UuidTextStrategy:
		return "uuid-text"
	case TimestampTextStrategy:
		return "timestamp-text"
	case StructuredDataStrategy:
		return "structured-data"
	case OpaqueBinaryStrategy:
		return "opaque-binary"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// TypeConverter decodes a raw column value into its JSON
// compatible representation, according to the strategy it is
// registered for
type TypeConverter func(strategy DecodeStrategy, value any) (any, error)

// TypeManager resolves declared type labels into decode
// strategies and hands out the converter registered for a
// strategy. Resolution never fails; unrecognized labels
// degrade to OpaqueBinaryStrategy.
type TypeManager interface {
	// ResolveTypeLabel maps a declared type label to its
	// decode strategy
	ResolveTypeLabel(label string) DecodeStrategy
	// Converter returns the type converter registered for
	// the given decode strategy
	Converter(strategy DecodeStrategy) TypeConverter
}

// RowSerializer drives type label resolution and value
// decoding across all columns of one row, assembling an
// ordered JSON object
type RowSerializer interface {
	// Serialize converts one row into an ordered JSON object,
	// matching row columns against the descriptor set by name.
	// Conversion is atomic; the first decode failure aborts
	// the whole row.
	Serialize(row rowset.Row, descriptors schema.Columns) (*encoding.Object, error)
}
