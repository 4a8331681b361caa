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

package encoding

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Object is a JSON object which preserves key insertion order
// when marshalled. Row serialization emits columns in the row's
// native order, which plain Go maps cannot guarantee.
type Object struct {
	keys   []string
	values map[string]any
}

func NewObject() *Object {
	return &Object{
		keys:   make([]string, 0),
		values: make(map[string]any),
	}
}

// Put inserts or replaces the value under the given key.
// Replacing keeps the original insertion position.
func (o *Object) Put(
	key string, value any,
) {

	if _, present := o.values[key]; !present {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under the given key
func (o *Object) Get(
	key string,
) (value any, present bool) {

	value, present = o.values[key]
	return
}

// Keys returns the keys in insertion order
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of entries
func (o *Object) Len() int {
	return len(o.keys)
}

func (o *Object) MarshalJSON() ([]byte, error) {
	buffer := bytes.Buffer{}
	buffer.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buffer.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buffer.Write(k)
		buffer.WriteByte(':')

		v, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buffer.Write(v)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// AsMap returns the entries as a plain map, losing the
// insertion order
func (o *Object) AsMap() map[string]any {
	values := make(map[string]any, len(o.values))
	for k, v := range o.values {
		values[k] = v
	}
	return values
}
