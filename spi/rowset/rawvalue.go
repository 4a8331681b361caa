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
	"fmt"
	"time"
)

// StorageClass describes the native storage class of a raw
// column value as reported by the storage engine
type StorageClass int

const (
	NullClass StorageClass = iota
	TextClass
	IntegerClass
	FloatClass
	BlobClass
)

func (sc StorageClass) String() string {
	switch sc {
	case NullClass:
		return "null"
	case TextClass:
		return "text"
	case IntegerClass:
		return "integer"
	case FloatClass:
		return "float"
	case BlobClass:
		return "blob"
	}
	return fmt.Sprintf("unknown(%d)", int(sc))
}

// RawValue is the opaque, per-row, per-column encoded value
// handed over by the query execution layer. It only lives for
// the duration of one row conversion.
type RawValue struct {
	class StorageClass
	value any
}

// NullValue returns the raw representation of a SQL NULL
func NullValue() RawValue {
	return RawValue{class: NullClass}
}

func NewTextValue(
	value string,
) RawValue {

	return RawValue{class: TextClass, value: value}
}

func NewIntegerValue(
	value int64,
) RawValue {

	return RawValue{class: IntegerClass, value: value}
}

func NewFloatValue(
	value float64,
) RawValue {

	return RawValue{class: FloatClass, value: value}
}

func NewBlobValue(
	value []byte,
) RawValue {

	return RawValue{class: BlobClass, value: value}
}

// NewRawValue derives the storage class from the native Go type
// a database/sql driver reports. Unknown types are retained as
// blob class and left to the decoding strategy to sort out.
func NewRawValue(
	value any,
) RawValue {

	switch v := value.(type) {
	case nil:
		return NullValue()
	case string:
		return NewTextValue(v)
	case int64:
		return NewIntegerValue(v)
	case int:
		return NewIntegerValue(int64(v))
	case int32:
		return NewIntegerValue(int64(v))
	case bool:
		if v {
			return NewIntegerValue(1)
		}
		return NewIntegerValue(0)
	case float64:
		return NewFloatValue(v)
	case float32:
		return NewFloatValue(float64(v))
	case []byte:
		return NewBlobValue(v)
	case time.Time:
		return RawValue{class: TextClass, value: v}
	}
	return RawValue{class: BlobClass, value: value}
}

// Class returns the native storage class of the value
func (rv RawValue) Class() StorageClass {
	return rv.class
}

// IsNull returns true if the value represents a SQL NULL
func (rv RawValue) IsNull() bool {
	return rv.class == NullClass
}

// Value returns the native value as handed over by the
// query execution layer, or nil for SQL NULL
func (rv RawValue) Value() any {
	return rv.value
}
