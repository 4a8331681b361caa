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
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/datakettle/rowset-serializer/internal/typemanager"
	"github.com/datakettle/rowset-serializer/spi/rowset"
	"github.com/datakettle/rowset-serializer/spi/schema"
)

func openTestDatabase(
	t *testing.T,
) *SqliteSideChannel {

	sideChannel, err := NewSqliteSideChannel(
		filepath.Join(t.TempDir(), "sidechannel_test.db"),
	)
	assert.Nil(t, err)

	t.Cleanup(func() {
		sideChannel.Close()
	})
	return sideChannel
}

func createTypeTestTable(
	t *testing.T, sideChannel *SqliteSideChannel,
) {

	err := sideChannel.Execute(`
		CREATE TABLE type_test (
			id INTEGER PRIMARY KEY,
			external_id UUID_TEXT,
			email EMAIL_TEXT NOT NULL,
			password PASSWORD_TEXT,
			profile JSON_TEXT,
			created_at DATETIME_TEXT,
			big BIGINT,
			score REAL,
			active BOOLEAN DEFAULT 0,
			payload BLOB
		)`,
	)
	assert.Nil(t, err)
}

func TestReadTableSchema_Descriptor_Set(
	t *testing.T,
) {

	sideChannel := openTestDatabase(t)
	createTypeTestTable(t, sideChannel)

	descriptors, err := sideChannel.ReadTableSchema("type_test")
	assert.Nil(t, err)
	assert.Equal(t, 10, len(descriptors))

	id, present := descriptors.Lookup("id")
	assert.True(t, present)
	assert.Equal(t, 0, id.Ordinal())
	assert.Equal(t, "INTEGER", id.TypeLabel())
	assert.True(t, id.IsPrimaryKey())

	email, present := descriptors.Lookup("email")
	assert.True(t, present)
	assert.Equal(t, "EMAIL_TEXT", email.TypeLabel())
	assert.False(t, email.IsNullable())
	assert.False(t, email.IsPrimaryKey())

	active, present := descriptors.Lookup("active")
	assert.True(t, present)
	assert.Equal(t, "BOOLEAN", active.TypeLabel())
	assert.True(t, active.IsNullable())
	assert.NotNil(t, active.DefaultValue())
	assert.Equal(t, "0", *active.DefaultValue())

	assert.True(t, descriptors.HasPrimaryKey())
}

func TestReadTableSchema_Missing_Table(
	t *testing.T,
) {

	sideChannel := openTestDatabase(t)

	_, err := sideChannel.ReadTableSchema("no_such_table")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestQueryRows_Serializes_Typed_Row(
	t *testing.T,
) {

	sideChannel := openTestDatabase(t)
	createTypeTestTable(t, sideChannel)

	err := sideChannel.Execute(`
		INSERT INTO type_test (
			id, external_id, email, password, profile,
			created_at, big, score, active, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1,
		"550E8400-E29B-41D4-A716-446655440000",
		"user@example.com",
		"s3cr3t",
		`{"l1":{"l2":{"l3":{"l4":[1,2,3]}}}}`,
		"2023-04-05T06:07:08Z",
		int64(math.MaxInt64),
		505.0,
		1,
		[]byte{0x01, 0x02},
	)
	assert.Nil(t, err)

	descriptors, err := sideChannel.ReadTableSchema("type_test")
	assert.Nil(t, err)

	typeManager, err := typemanager.NewTypeManager()
	assert.Nil(t, err)
	serializer, err := typemanager.NewRowSerializer(typeManager)
	assert.Nil(t, err)

	rowCount := 0
	err = sideChannel.QueryRows("SELECT * FROM type_test", func(row rowset.Row) error {
		rowCount++

		object, err := serializer.Serialize(row, descriptors)
		assert.Nil(t, err)

		assert.Equal(t, int32(1), lo.Must(object.Get("id")))
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", lo.Must(object.Get("external_id")))
		assert.Equal(t, "user@example.com", lo.Must(object.Get("email")))
		assert.Equal(t, "s3cr3t", lo.Must(object.Get("password")))
		assert.Equal(t, "2023-04-05T06:07:08Z", lo.Must(object.Get("created_at")))
		assert.Equal(t, int64(math.MaxInt64), lo.Must(object.Get("big")))
		assert.Equal(t, 505.0, lo.Must(object.Get("score")))
		assert.Equal(t, true, lo.Must(object.Get("active")))
		assert.Equal(t, []int{1, 2}, lo.Must(object.Get("payload")))

		l1 := lo.Must(object.Get("profile")).(map[string]any)["l1"].(map[string]any)
		l4 := l1["l2"].(map[string]any)["l3"].(map[string]any)["l4"].([]any)
		assert.Equal(t, []any{float64(1), float64(2), float64(3)}, l4)

		// native column order is preserved in the document
		assert.Equal(t, []string{
			"id", "external_id", "email", "password", "profile",
			"created_at", "big", "score", "active", "payload",
		}, object.Keys())
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 1, rowCount)
}

func TestQueryRows_Null_Columns(
	t *testing.T,
) {

	sideChannel := openTestDatabase(t)
	createTypeTestTable(t, sideChannel)

	err := sideChannel.Execute(
		`INSERT INTO type_test (id, email) VALUES (?, ?)`, 1, "user@example.com",
	)
	assert.Nil(t, err)

	descriptors, err := sideChannel.ReadTableSchema("type_test")
	assert.Nil(t, err)

	typeManager, err := typemanager.NewTypeManager()
	assert.Nil(t, err)
	serializer, err := typemanager.NewRowSerializer(typeManager)
	assert.Nil(t, err)

	err = sideChannel.QueryRows("SELECT * FROM type_test", func(row rowset.Row) error {
		object, err := serializer.Serialize(row, descriptors)
		assert.Nil(t, err)

		for _, name := range []string{
			"external_id", "password", "profile", "created_at", "big", "score", "payload",
		} {
			value, present := object.Get(name)
			assert.True(t, present, "column %s missing", name)
			assert.Nil(t, value, "column %s expected to be null", name)
		}
		return nil
	})
	assert.Nil(t, err)
}

func TestQueryRows_Aggregate_With_Synthetic_Descriptors(
	t *testing.T,
) {

	sideChannel := openTestDatabase(t)

	err := sideChannel.Execute(`CREATE TABLE samples (value INTEGER)`)
	assert.Nil(t, err)

	for i := 1; i <= 100; i++ {
		err := sideChannel.Execute(`INSERT INTO samples (value) VALUES (?)`, i*10)
		assert.Nil(t, err)
	}

	descriptors, err := schema.NewDescriptorSet([]schema.Column{
		schema.NewSyntheticColumn(0, "count", "INTEGER"),
		schema.NewSyntheticColumn(1, "sum", "INTEGER"),
		schema.NewSyntheticColumn(2, "avg", "REAL"),
	})
	assert.Nil(t, err)

	typeManager, err := typemanager.NewTypeManager()
	assert.Nil(t, err)
	serializer, err := typemanager.NewRowSerializer(typeManager)
	assert.Nil(t, err)

	rowCount := 0
	err = sideChannel.QueryRows(
		`SELECT COUNT(*) AS count, SUM(value) AS sum, AVG(value) AS avg FROM samples`,
		func(row rowset.Row) error {
			rowCount++

			object, err := serializer.Serialize(row, descriptors)
			assert.Nil(t, err)

			assert.Equal(t, int32(100), lo.Must(object.Get("count")))
			assert.Equal(t, int32(50500), lo.Must(object.Get("sum")))
			assert.InDelta(t, 505.0, lo.Must(object.Get("avg")).(float64), 1e-9)
			return nil
		},
	)
	assert.Nil(t, err)
	assert.Equal(t, 1, rowCount)
}

func TestQueryRows_Sink_Failure_Stops_Iteration(
	t *testing.T,
) {

	sideChannel := openTestDatabase(t)

	err := sideChannel.Execute(`CREATE TABLE samples (value INTEGER)`)
	assert.Nil(t, err)
	for i := 0; i < 10; i++ {
		err := sideChannel.Execute(`INSERT INTO samples (value) VALUES (?)`, i)
		assert.Nil(t, err)
	}

	seen := 0
	err = sideChannel.QueryRows("SELECT * FROM samples", func(row rowset.Row) error {
		seen++
		if seen == 3 {
			return fmt.Errorf("sink rejected row")
		}
		return nil
	})
	assert.NotNil(t, err)
	assert.Equal(t, 3, seen)
}
