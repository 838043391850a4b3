// Package ordered provides a string-keyed map whose iteration order is insertion order and
// whose entries can be addressed by position.
//
// Board and list sequences are stored in these maps: the key is the display name and the
// position is the display order, so both must survive every mutation and every JSON round trip.
package ordered

import (
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	ErrKeyExists       = errors.New("key already exists")
	ErrKeyNotFound     = errors.New("key not found")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Map is an ordered map from string keys to V. The zero value is ready to use.
type Map[V any] struct {
	om *orderedmap.OrderedMap[string, V]
}

func New[V any]() *Map[V] {
	return &Map[V]{om: orderedmap.New[string, V]()}
}

func (m *Map[V]) inner() *orderedmap.OrderedMap[string, V] {
	if m.om == nil {
		m.om = orderedmap.New[string, V]()
	}
	return m.om
}

func (m *Map[V]) Len() int {
	if m == nil || m.om == nil {
		return 0
	}
	return m.om.Len()
}

func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *Map[V]) Get(key string) (V, bool) {
	if m == nil || m.om == nil {
		var zero V
		return zero, false
	}
	return m.om.Get(key)
}

// Keys returns the keys in order. The result is never nil.
func (m *Map[V]) Keys() []string {
	out := make([]string, 0, m.Len())
	m.Each(func(k string, _ V) bool {
		out = append(out, k)
		return true
	})
	return out
}

// Each calls fn for every entry in order until fn returns false.
func (m *Map[V]) Each(fn func(key string, v V) bool) {
	if m == nil || m.om == nil {
		return
	}
	for p := m.om.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Index returns the position of key, or -1.
func (m *Map[V]) Index(key string) int {
	i := 0
	found := -1
	m.Each(func(k string, _ V) bool {
		if k == key {
			found = i
			return false
		}
		i++
		return true
	})
	return found
}

// At returns the entry at position i.
func (m *Map[V]) At(i int) (string, V, bool) {
	var (
		key string
		val V
		ok  bool
	)
	if i < 0 || i >= m.Len() {
		return key, val, false
	}
	n := 0
	m.Each(func(k string, v V) bool {
		if n == i {
			key, val, ok = k, v, true
			return false
		}
		n++
		return true
	})
	return key, val, ok
}

// Set replaces the value of an existing key in place, or appends a new entry.
func (m *Map[V]) Set(key string, v V) {
	m.inner().Set(key, v)
}

// InsertAt inserts a new entry so that it ends up at position i (0 <= i <= Len).
func (m *Map[V]) InsertAt(i int, key string, v V) error {
	n := m.Len()
	if i < 0 || i > n {
		return ErrIndexOutOfRange
	}
	if m.Has(key) {
		return ErrKeyExists
	}
	var mark string
	if i < n {
		mark, _, _ = m.At(i)
	}
	om := m.inner()
	om.Set(key, v)
	if i < n {
		return om.MoveBefore(key, mark)
	}
	return nil
}

// Delete removes key and reports the value and the position it held.
func (m *Map[V]) Delete(key string) (V, int, bool) {
	idx := m.Index(key)
	if idx < 0 {
		var zero V
		return zero, -1, false
	}
	v, _ := m.om.Delete(key)
	return v, idx, true
}

// Rename changes a key without changing its position.
func (m *Map[V]) Rename(oldKey, newKey string) error {
	if oldKey == newKey {
		if !m.Has(oldKey) {
			return ErrKeyNotFound
		}
		return nil
	}
	v, ok := m.Get(oldKey)
	if !ok {
		return ErrKeyNotFound
	}
	if m.Has(newKey) {
		return ErrKeyExists
	}
	om := m.inner()
	om.Set(newKey, v)
	if err := om.MoveBefore(newKey, oldKey); err != nil {
		om.Delete(newKey)
		return err
	}
	om.Delete(oldKey)
	return nil
}

// Move relocates key to position i (0 <= i < Len), shifting the entries in between.
func (m *Map[V]) Move(key string, i int) error {
	if !m.Has(key) {
		return ErrKeyNotFound
	}
	if i < 0 || i >= m.Len() {
		return ErrIndexOutOfRange
	}
	v, _, _ := m.Delete(key)
	return m.InsertAt(i, key, v)
}

func (m *Map[V]) MarshalJSON() ([]byte, error) {
	return m.inner().MarshalJSON()
}

func (m *Map[V]) UnmarshalJSON(b []byte) error {
	m.om = orderedmap.New[string, V]()
	return m.om.UnmarshalJSON(b)
}
