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
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/go-errors/errors"
	"github.com/hashicorp/go-uuid"

	"github.com/datakettle/rowset-serializer/spi/coltypes"
	"github.com/datakettle/rowset-serializer/spi/encoding"
)

// errIllegalValue represents an illegal decode request for
// the given raw value
var errIllegalValue = fmt.Errorf("illegal value for decode strategy")

var structuredDataDecoder = encoding.NewJsonDecoder(true)

// timestampLayouts are the textual timestamp representations
// accepted for decoding; output is always UTC RFC3339Nano
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
}

func text2text(
	_ coltypes.DecodeStrategy, value any,
) (any, error) {

	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		if !utf8.Valid(v) {
			return nil, errors.Errorf("malformed utf-8 text payload")
		}
		return string(v), nil
	}
	return nil, errIllegalValue
}

func integer2int32(
	_ coltypes.DecodeStrategy, value any,
) (any, error) {

	switch v := value.(type) {
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, errors.Errorf("value %d out of range for a 32 bit integer", v)
		}
		return int32(v), nil
	case int32:
		return v, nil
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, errors.Errorf("value %d out of range for a 32 bit integer", v)
		}
		return int32(v), nil
	}
	return nil, errIllegalValue
}

// integer2int64 keeps the full signed 64 bit range; values
// never pass through a float representation
func integer2int64(
	_ coltypes.DecodeStrategy, value any,
) (any, error) {

	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	}
	return nil, errIllegalValue
}

func number2float(
	_ coltypes.DecodeStrategy, value any,
) (any, error) {

	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	}
	return nil, errIllegalValue
}

// integer2bool accepts the storage engine's native boolean
// encoding, a 0/1 integer
func integer2bool(
	_ coltypes.DecodeStrategy, value any,
) (any, error) {

	switch v := value.(type) {
	case bool:
		return v, nil
	case int64:
		if v == 0 {
			return false, nil
		}
		if v == 1 {
			return true, nil
		}
		return nil, errors.Errorf("value %d is not a valid boolean encoding", v)
	case int32:
		return integer2bool(coltypes.BooleanStrategy, int64(v))
	}
	return nil, errIllegalValue
}

// uuid2text decodes textual and 16 byte binary unique
// identifiers into their canonical textual form
func uuid2text(
	_ coltypes.DecodeStrategy, value any,
) (any, error) {

	switch v := value.(type) {
	case string:
		parsed, err := uuid.ParseUUID(v)
		if err != nil {
			return nil, errors.Wrap(err, 0)
		}
		return uuid.FormatUUID(parsed)
	case []byte:
		if len(v) == 16 {
			return uuid.FormatUUID(v)
		}
		return uuid2text(coltypes.UuidTextStrategy, string(v))
	}
	return nil, errIllegalValue
}

func timestamp2text(
	_ coltypes.DecodeStrategy, value any,
) (any, error) {

	switch v := value.(type) {
	case time.Time:
		return v.In(time.UTC).Format(time.RFC3339Nano), nil
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed.In(time.UTC).Format(time.RFC3339Nano), nil
			}
		}
		return nil, errors.Errorf("unsupported timestamp representation '%s'", v)
	case []byte:
		return timestamp2text(coltypes.TimestampTextStrategy, string(v))
	}
	return nil, errIllegalValue
}

// payload2node parses an already serialized document and embeds
// the resulting node directly, preserving nested arrays and
// objects of arbitrary depth
func payload2node(
	_ coltypes.DecodeStrategy, value any,
) (any, error) {

	var payload []byte
	switch v := value.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		return nil, errIllegalValue
	}

	var node any
	if err := structuredDataDecoder.Unmarshal(payload, &node); err != nil {
		return nil, errors.Errorf("corrupt structured data payload: %s", err.Error())
	}
	return node, nil
}

// blob2bytes is the safe fallback for unrecognized labels; raw
// bytes become an array of byte values, an empty payload an
// empty array
func blob2bytes(
	_ coltypes.DecodeStrategy, value any,
) (any, error) {

	var payload []byte
	switch v := value.(type) {
	case []byte:
		payload = v
	case string:
		payload = []byte(v)
	default:
		return nil, errIllegalValue
	}

	byteValues := make([]int, len(payload))
	for i, b := range payload {
		byteValues[i] = int(b)
	}
	return byteValues, nil
}
