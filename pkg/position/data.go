package position

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"

	"github.com/matzehuels/floatplace/pkg/errors"
)

// Data is a value a middleware publishes under its name.
//
// Merge combines the value with the one stored by an earlier invocation of
// the same middleware. prev is nil on the first write and otherwise has the
// same concrete type as the receiver. Fields the receiver leaves unset
// (nil pointers, nil slices, missing keys) must keep their previous value.
type Data interface {
	Merge(prev Data) Data
}

// Record is free-form data for custom middleware.
type Record map[string]any

// Merge drops nil values from r and unions the rest over prev. A first write
// is stored as given.
func (r Record) Merge(prev Data) Data {
	p, ok := prev.(Record)
	if !ok {
		return maps.Clone(r)
	}
	out := maps.Clone(p)
	if out == nil {
		out = Record{}
	}
	for k, v := range r {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// MiddlewareData maps middleware names to their data in insertion order.
type MiddlewareData struct {
	keys   []string
	values map[string]Data
}

// NewMiddlewareData returns an empty map.
func NewMiddlewareData() *MiddlewareData {
	return &MiddlewareData{values: map[string]Data{}}
}

// Get returns the data stored under name.
func (m *MiddlewareData) Get(name string) (Data, bool) {
	if m == nil {
		return nil, false
	}
	d, ok := m.values[name]
	return d, ok
}

// Keys returns the stored names in insertion order.
func (m *MiddlewareData) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of stored names.
func (m *MiddlewareData) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Merge stores d under name, merging it with any earlier value. It panics
// with an [errors.ErrCodeContract] error when d and the stored value have
// different types.
func (m *MiddlewareData) Merge(name string, d Data) {
	if d == nil {
		return
	}
	prev, ok := m.values[name]
	if !ok {
		m.keys = append(m.keys, name)
		m.values[name] = d.Merge(nil)
		return
	}
	if reflect.TypeOf(prev) != reflect.TypeOf(d) {
		panic(errors.New(errors.ErrCodeContract,
			"middleware %q stored %T and then returned %T", name, prev, d))
	}
	m.values[name] = d.Merge(prev)
}

// Clone returns a copy whose key order and map are independent of m.
func (m *MiddlewareData) Clone() *MiddlewareData {
	c := NewMiddlewareData()
	if m == nil {
		return c
	}
	c.keys = append(c.keys, m.keys...)
	maps.Copy(c.values, m.values)
	return c
}

// MarshalJSON encodes the data as an object whose keys keep insertion order.
func (m *MiddlewareData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DataAs returns the data stored under name as T.
func DataAs[T Data](m *MiddlewareData, name string) (T, bool) {
	var zero T
	d, ok := m.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := d.(T)
	return t, ok
}
