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
	"strings"

	"github.com/datakettle/rowset-serializer/internal/containers"
	"github.com/datakettle/rowset-serializer/internal/logging"
	"github.com/datakettle/rowset-serializer/spi/coltypes"
)

// primitiveLabels are the exact primitive type labels, matched
// against the full label first and against the suffix of
// custom labels last
var primitiveLabels = map[string]coltypes.DecodeStrategy{
	"text":    coltypes.TextStrategy,
	"integer": coltypes.Int32Strategy,
	"int4":    coltypes.Int32Strategy,
	"bigint":  coltypes.Int64Strategy,
	"int8":    coltypes.Int64Strategy,
	"real":    coltypes.DoubleStrategy,
	"boolean": coltypes.BooleanStrategy,
}

// semanticAliases are matched against the part of the label
// before the first underscore, carrying domain meaning beyond
// the storage class (UUID_TEXT, DATETIME_TEXT, JSON_TEXT, ...)
var semanticAliases = map[string]coltypes.DecodeStrategy{
	"uuid":     coltypes.UuidTextStrategy,
	"datetime": coltypes.TimestampTextStrategy,
	"password": coltypes.TextStrategy,
	"email":    coltypes.TextStrategy,
	"json":     coltypes.StructuredDataStrategy,
}

type typeManager struct {
	logger *logging.Logger

	strategyCache *containers.CasCache[string, coltypes.DecodeStrategy]
	converters    map[coltypes.DecodeStrategy]coltypes.TypeConverter
}

func NewTypeManager() (coltypes.TypeManager, error) {
	logger, err := logging.NewLogger("TypeManager")
	if err != nil {
		return nil, err
	}

	return &typeManager{
		logger: logger,

		strategyCache: containers.NewCasCache[string, coltypes.DecodeStrategy](),
		converters: map[coltypes.DecodeStrategy]coltypes.TypeConverter{
			coltypes.TextStrategy:           text2text,
			coltypes.Int32Strategy:          integer2int32,
			coltypes.Int64Strategy:          integer2int64,
			coltypes.DoubleStrategy:         number2float,
			coltypes.BooleanStrategy:        integer2bool,
			coltypes.UuidTextStrategy:       uuid2text,
			coltypes.TimestampTextStrategy:  timestamp2text,
			coltypes.StructuredDataStrategy: payload2node,
			coltypes.OpaqueBinaryStrategy:   blob2bytes,
		},
	}, nil
}

// ResolveTypeLabel maps a declared type label to its decode
// strategy. Resolution is a pure function of the lowercase
// label; the result is cached per label since descriptor sets
// repeat the same handful of labels across many rows.
func (tm *typeManager) ResolveTypeLabel(
	label string,
) coltypes.DecodeStrategy {

	normalized := strings.ToLower(label)
	strategy, _ := tm.strategyCache.GetOrCompute(
		normalized, func() (coltypes.DecodeStrategy, error) {
			strategy := resolveTypeLabel(normalized)
			tm.logger.Tracef("resolved type label '%s' to strategy %s", label, strategy)
			return strategy, nil
		},
	)
	return strategy
}

func (tm *typeManager) Converter(
	strategy coltypes.DecodeStrategy,
) coltypes.TypeConverter {

	return tm.converters[strategy]
}

// resolveTypeLabel implements the resolution fallback chain.
// The rules are ordered; reordering changes the observable
// behavior for ambiguous labels:
//  1. exact match against the primitive labels
//  2. prefix (before the first underscore) match against the
//     semantic aliases
//  3. suffix (after the first underscore) match against the
//     primitive labels
//  4. opaque binary fallback
func resolveTypeLabel(
	normalized string,
) coltypes.DecodeStrategy {

	if strategy, present := primitiveLabels[normalized]; present {
		return strategy
	}

	prefix, suffix, _ := strings.Cut(normalized, "_")
	if strategy, present := semanticAliases[prefix]; present {
		return strategy
	}

	if suffix != "" {
		if strategy, present := primitiveLabels[suffix]; present {
			return strategy
		}
	}

	return coltypes.OpaqueBinaryStrategy
}
