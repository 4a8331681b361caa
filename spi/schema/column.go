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

package schema

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
	"github.com/samber/lo"
)

// Columns represents the full descriptor set of a table or of
// a synthetic result shape. Descriptor sets are immutable once
// created and safe to share between concurrent row conversions.
type Columns []Column

// NewDescriptorSet validates and creates a descriptor set from
// the given columns. Column names have to be unique within one
// descriptor set.
func NewDescriptorSet(
	columns []Column,
) (Columns, error) {

	seen := make(map[string]struct{}, len(columns))
	for _, column := range columns {
		if _, present := seen[column.name]; present {
			return nil, errors.Errorf(
				"duplicate column name '%s' in descriptor set", column.name,
			)
		}
		seen[column.name] = struct{}{}
	}
	return Columns(columns), nil
}

// Lookup finds a column descriptor by name. Rows are matched
// against descriptors by name, never by ordinal position.
func (c Columns) Lookup(
	name string,
) (column Column, present bool) {

	return lo.Find(c, func(item Column) bool {
		return item.name == name
	})
}

// HasPrimaryKey returns true if the descriptor set contains
// one or more primary key column(s)
func (c Columns) HasPrimaryKey() bool {
	return lo.ContainsBy(c, func(other Column) bool {
		return other.IsPrimaryKey()
	})
}

// PrimaryKeyColumns returns the primary key column(s) of the
// descriptor set in ordinal order
func (c Columns) PrimaryKeyColumns() Columns {
	primaryKeyColumns := lo.Filter(c, func(item Column, _ int) bool {
		return item.IsPrimaryKey()
	})

	return lo.Must(NewDescriptorSet(primaryKeyColumns))
}

// Column represents one column descriptor as produced by the
// schema introspection layer ("describe table" style query) or
// supplied by the caller for synthetic result shapes
type Column struct {
	ordinal      int
	name         string
	typeLabel    string
	nullable     bool
	primaryKey   bool
	defaultValue *string
}

// NewColumn instantiates a new Column descriptor
func NewColumn(
	ordinal int, name, typeLabel string, nullable bool,
	primaryKey bool, defaultValue *string,
) Column {

	return Column{
		ordinal:      ordinal,
		name:         name,
		typeLabel:    typeLabel,
		nullable:     nullable,
		primaryKey:   primaryKey,
		defaultValue: defaultValue,
	}
}

// NewSyntheticColumn instantiates a descriptor which isn't tied
// to a physical table, such as a column of an aggregate query
// result. Synthetic descriptors are treated identically to
// schema-derived ones.
func NewSyntheticColumn(
	ordinal int, name, typeLabel string,
) Column {

	return NewColumn(ordinal, name, typeLabel, true, false, nil)
}

// Ordinal returns the ordinal position of the column
func (c Column) Ordinal() int {
	return c.ordinal
}

// Name returns the column name
func (c Column) Name() string {
	return c.name
}

// TypeLabel returns the declared type label of the column. The
// label is a free-form string; interpreting it is the job of
// the type label resolver.
func (c Column) TypeLabel() string {
	return c.typeLabel
}

// IsNullable returns true if the column is nullable
func (c Column) IsNullable() bool {
	return c.nullable
}

// IsPrimaryKey returns true if the column is part of
// the primary key
func (c Column) IsPrimaryKey() bool {
	return c.primaryKey
}

// DefaultValue returns the default value literal of the
// column, otherwise nil if no default value is defined
func (c Column) DefaultValue() *string {
	return c.defaultValue
}

func (c Column) String() string {
	builder := strings.Builder{}
	builder.WriteString("{")
	builder.WriteString(fmt.Sprintf("ordinal:%d ", c.ordinal))
	builder.WriteString(fmt.Sprintf("name:%s ", c.name))
	builder.WriteString(fmt.Sprintf("typeLabel:%s ", c.typeLabel))
	builder.WriteString(fmt.Sprintf("nullable:%t ", c.nullable))
	builder.WriteString(fmt.Sprintf("primaryKey:%t ", c.primaryKey))
	if c.defaultValue == nil {
		builder.WriteString("defaultValue:<nil>")
	} else {
		builder.WriteString(fmt.Sprintf("defaultValue:%s", *c.defaultValue))
	}
	builder.WriteString("}")
	return builder.String()
}
