// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

type versioned[T any] struct {
	version uint64
	value   T
}

// Versioned holds one immutable value derived from a catalog snapshot version.
//
// Readers either see the complete value for some version or build a new one; a value is
// published with a single atomic pointer swap and is never modified afterwards.
// Concurrent builds for the same version are collapsed into one.
type Versioned[T any] struct {
	current atomic.Pointer[versioned[T]]
	group   singleflight.Group
	builds  atomic.Int64
}

// Get returns the value for version, calling build when the held value is for another
// version or absent. build must not retain or mutate shared state.
func (v *Versioned[T]) Get(version uint64, build func() T) T {
	if cur := v.current.Load(); cur != nil && cur.version == version {
		return cur.value
	}

	res, _, _ := v.group.Do(strconv.FormatUint(version, 10), func() (any, error) {
		if cur := v.current.Load(); cur != nil && cur.version == version {
			return cur.value, nil
		}
		value := build()
		v.builds.Add(1)
		next := &versioned[T]{version: version, value: value}
		for {
			cur := v.current.Load()
			// Never replace a newer version with an older one.
			if cur != nil && cur.version > version {
				break
			}
			if v.current.CompareAndSwap(cur, next) {
				break
			}
		}
		return value, nil
	})
	return res.(T)
}

// Peek returns the held value and its version without building.
func (v *Versioned[T]) Peek() (T, uint64, bool) {
	cur := v.current.Load()
	if cur == nil {
		var zero T
		return zero, 0, false
	}
	return cur.value, cur.version, true
}

// Builds returns how many times a value has been built.
func (v *Versioned[T]) Builds() int64 {
	return v.builds.Load()
}
