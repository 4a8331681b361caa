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

package containers

import (
	"sync"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
)

func TestCasCache_Get_Set(
	t *testing.T,
) {

	cache := NewCasCache[string, int]()

	_, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Length())

	cache.Set("answer", 42)
	value, ok := cache.Get("answer")
	assert.True(t, ok)
	assert.Equal(t, 42, value)
	assert.Equal(t, 1, cache.Length())
}

func TestCasCache_GetOrCompute(
	t *testing.T,
) {

	cache := NewCasCache[string, int]()

	calls := 0
	value, err := cache.GetOrCompute("key", func() (int, error) {
		calls++
		return 21, nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 21, value)
	assert.Equal(t, 1, calls)

	value, err = cache.GetOrCompute("key", func() (int, error) {
		calls++
		return 0, nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 21, value)
	assert.Equal(t, 1, calls)
}

func TestCasCache_GetOrCompute_Producer_Failure(
	t *testing.T,
) {

	cache := NewCasCache[string, int]()

	_, err := cache.GetOrCompute("key", func() (int, error) {
		return 0, errors.Errorf("producer failed")
	})
	assert.NotNil(t, err)
	assert.Equal(t, 0, cache.Length())
}

func TestCasCache_Concurrent_Writers(
	t *testing.T,
) {

	cache := NewCasCache[int, int]()

	wg := sync.WaitGroup{}
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Set(i, i*2)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 64, cache.Length())
	for i := 0; i < 64; i++ {
		value, ok := cache.Get(i)
		assert.True(t, ok)
		assert.Equal(t, i*2, value)
	}
}
