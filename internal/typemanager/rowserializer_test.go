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
	"math"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/datakettle/rowset-serializer/spi/coltypes"
	"github.com/datakettle/rowset-serializer/spi/encoding"
	"github.com/datakettle/rowset-serializer/spi/rowset"
	"github.com/datakettle/rowset-serializer/spi/schema"
)

func makeRowSerializer(
	t *testing.T,
) coltypes.RowSerializer {

	typeManager, err := NewTypeManager()
	assert.Nil(t, err)

	serializer, err := NewRowSerializer(typeManager)
	assert.Nil(t, err)
	return serializer
}

func makeDescriptors(
	t *testing.T, labels map[string]string, order ...string,
) schema.Columns {

	columns := make([]schema.Column, 0, len(order))
	for ordinal, name := range order {
		columns = append(columns, schema.NewSyntheticColumn(ordinal, name, labels[name]))
	}

	descriptors, err := schema.NewDescriptorSet(columns)
	assert.Nil(t, err)
	return descriptors
}

func makeRow(
	t *testing.T, names []string, values []rowset.RawValue,
) rowset.Row {

	row, err := rowset.NewTupleRow(names, values)
	assert.Nil(t, err)
	return row
}

func TestSerialize_Mixed_Column_Types(
	t *testing.T,
) {

	serializer := makeRowSerializer(t)
	descriptors := makeDescriptors(t, map[string]string{
		"id":         "INTEGER",
		"external":   "UUID_TEXT",
		"name":       "TEXT",
		"active":     "BOOLEAN",
		"score":      "REAL",
		"created_at": "DATETIME_TEXT",
	}, "id", "external", "name", "active", "score", "created_at")

	row := makeRow(t,
		[]string{"id", "external", "name", "active", "score", "created_at"},
		[]rowset.RawValue{
			rowset.NewIntegerValue(7),
			rowset.NewTextValue("550E8400-E29B-41D4-A716-446655440000"),
			rowset.NewTextValue("kettle"),
			rowset.NewIntegerValue(1),
			rowset.NewFloatValue(99.5),
			rowset.NewTextValue("2023-04-05T06:07:08Z"),
		},
	)

	object, err := serializer.Serialize(row, descriptors)
	assert.Nil(t, err)
	assert.Equal(t, 6, object.Len())

	assert.Equal(t, int32(7), lo.Must(object.Get("id")))
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", lo.Must(object.Get("external")))
	assert.Equal(t, "kettle", lo.Must(object.Get("name")))
	assert.Equal(t, true, lo.Must(object.Get("active")))
	assert.Equal(t, 99.5, lo.Must(object.Get("score")))
	assert.Equal(t, "2023-04-05T06:07:08Z", lo.Must(object.Get("created_at")))
}

func TestSerialize_Document_Shape_And_Order(
	t *testing.T,
) {

	serializer := makeRowSerializer(t)
	descriptors := makeDescriptors(t, map[string]string{
		"simple_text": "TEXT",
		"big_int":     "BIGINT",
		"json_data":   "JSON_TEXT",
	}, "simple_text", "big_int", "json_data")

	row := makeRow(t,
		[]string{"simple_text", "big_int", "json_data"},
		[]rowset.RawValue{
			rowset.NewTextValue("hello"),
			rowset.NewIntegerValue(math.MaxInt64),
			rowset.NewTextValue(`{"a":{"b":[1,2,3]}}`),
		},
	)

	object, err := serializer.Serialize(row, descriptors)
	assert.Nil(t, err)

	data, err := object.MarshalJSON()
	assert.Nil(t, err)
	assert.Equal(t,
		`{"simple_text":"hello","big_int":9223372036854775807,"json_data":{"a":{"b":[1,2,3]}}}`,
		string(data),
	)

	// marshalling is deterministic across repetitions
	again, err := object.MarshalJSON()
	assert.Nil(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestSerialize_Null_Is_Null_For_Every_Label(
	t *testing.T,
) {

	serializer := makeRowSerializer(t)

	labels := []string{
		"TEXT", "INTEGER", "BIGINT", "REAL", "BOOLEAN",
		"UUID_TEXT", "DATETIME_TEXT", "PASSWORD_TEXT",
		"EMAIL_TEXT", "JSON_TEXT", "VARCHAR",
	}

	for _, label := range labels {
		descriptors := makeDescriptors(t, map[string]string{"value": label}, "value")
		row := makeRow(t, []string{"value"}, []rowset.RawValue{rowset.NullValue()})

		object, err := serializer.Serialize(row, descriptors)
		assert.Nil(t, err)

		value, present := object.Get("value")
		assert.True(t, present, "column missing for label %s", label)
		assert.Nil(t, value, "expected JSON null for label %s", label)
	}
}

func TestSerialize_Omits_Columns_Without_Descriptor(
	t *testing.T,
) {

	serializer := makeRowSerializer(t)
	descriptors := makeDescriptors(t, map[string]string{
		"known": "TEXT",
	}, "known")

	row := makeRow(t,
		[]string{"known", "unknown"},
		[]rowset.RawValue{
			rowset.NewTextValue("kept"),
			rowset.NewTextValue("dropped"),
		},
	)

	object, err := serializer.Serialize(row, descriptors)
	assert.Nil(t, err)
	assert.Equal(t, 1, object.Len())

	_, present := object.Get("unknown")
	assert.False(t, present)

	data, err := object.MarshalJSON()
	assert.Nil(t, err)
	assert.Equal(t, `{"known":"kept"}`, string(data))
}

func TestSerialize_First_Decode_Failure_Aborts_Row(
	t *testing.T,
) {

	serializer := makeRowSerializer(t)
	descriptors := makeDescriptors(t, map[string]string{
		"good":    "TEXT",
		"narrow":  "INTEGER",
		"trailer": "TEXT",
	}, "good", "narrow", "trailer")

	row := makeRow(t,
		[]string{"good", "narrow", "trailer"},
		[]rowset.RawValue{
			rowset.NewTextValue("fine"),
			rowset.NewIntegerValue(math.MaxInt32 + 1),
			rowset.NewTextValue("never decoded"),
		},
	)

	object, err := serializer.Serialize(row, descriptors)
	assert.Nil(t, object)
	assert.NotNil(t, err)

	var serializationError *coltypes.SerializationError
	assert.ErrorAs(t, err, &serializationError)

	decodeError := serializationError.DecodeError()
	assert.Equal(t, "narrow", decodeError.Column())
	assert.Equal(t, "INTEGER", decodeError.Label())
	assert.Equal(t, coltypes.Int32Strategy, decodeError.Strategy())
}

func TestSerialize_Synthetic_Aggregate_Descriptors(
	t *testing.T,
) {

	serializer := makeRowSerializer(t)
	descriptors := makeDescriptors(t, map[string]string{
		"count": "INTEGER",
		"sum":   "INTEGER",
		"avg":   "REAL",
	}, "count", "sum", "avg")

	row := makeRow(t,
		[]string{"count", "sum", "avg"},
		[]rowset.RawValue{
			rowset.NewIntegerValue(100),
			rowset.NewIntegerValue(50500),
			rowset.NewFloatValue(505.0),
		},
	)

	object, err := serializer.Serialize(row, descriptors)
	assert.Nil(t, err)

	assert.Equal(t, int32(100), lo.Must(object.Get("count")))
	assert.Equal(t, int32(50500), lo.Must(object.Get("sum")))
	assert.InDelta(t, 505.0, lo.Must(object.Get("avg")).(float64), 1e-9)
}

func TestSerialize_Unknown_Label_Falls_Back_To_Byte_Values(
	t *testing.T,
) {

	serializer := makeRowSerializer(t)
	descriptors := makeDescriptors(t, map[string]string{
		"payload": "VARBINARY",
	}, "payload")

	row := makeRow(t,
		[]string{"payload"},
		[]rowset.RawValue{rowset.NewBlobValue([]byte{0xde, 0xad})},
	)

	object, err := serializer.Serialize(row, descriptors)
	assert.Nil(t, err)
	assert.Equal(t, []int{222, 173}, lo.Must(object.Get("payload")))

	data, err := encoding.NewJsonEncoder(true).Marshal(object)
	assert.Nil(t, err)
	assert.Equal(t, `{"payload":[222,173]}`, string(data))
}
