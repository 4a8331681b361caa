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
)

// DecodeError reports a raw value which is incompatible with
// the decode strategy chosen for its column: bad text encoding,
// malformed structured data payload, or a numeric width
// mismatch. Decode failures are structural, not transient, and
// are never retried internally.
type DecodeError struct {
	column   string
	label    string
	strategy DecodeStrategy
	cause    error
}

func NewDecodeError(
	column, label string, strategy DecodeStrategy, cause error,
) *DecodeError {

	return &DecodeError{
		column:   column,
		label:    label,
		strategy: strategy,
		cause:    cause,
	}
}

// Column returns the name of the failed column
func (e *DecodeError) Column() string {
	return e.column
}

// Label returns the declared type label of the failed column
func (e *DecodeError) Label() string {
	return e.label
}

// Strategy returns the decode strategy chosen for the column
func (e *DecodeError) Strategy() DecodeStrategy {
	return e.strategy
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf(
		"failed to decode column '%s' (label '%s', strategy %s): %s",
		e.column, e.label, e.strategy, e.cause.Error(),
	)
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// SerializationError wraps the first DecodeError encountered
// while assembling a row. Row conversion is all-or-nothing; no
// partial row output is produced.
type SerializationError struct {
	cause *DecodeError
}

func NewSerializationError(
	cause *DecodeError,
) *SerializationError {

	return &SerializationError{
		cause: cause,
	}
}

// DecodeError returns the wrapped decode failure
func (e *SerializationError) DecodeError() *DecodeError {
	return e.cause
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("row serialization aborted: %s", e.cause.Error())
}

func (e *SerializationError) Unwrap() error {
	return e.cause
}
