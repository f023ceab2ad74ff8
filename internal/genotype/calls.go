package genotype

import (
	"bytes"
	"encoding/json"
)

// Calls maps variant ID to genotype string, remembering the position at
// which each ID was first seen. Setting an existing ID replaces its value
// but keeps its position.
type Calls struct {
	order  []string
	values map[string]string
}

// NewCalls returns an empty Calls.
func NewCalls() *Calls {
	return &Calls{values: make(map[string]string)}
}

// CallsFromPairs builds Calls from alternating id, genotype arguments.
func CallsFromPairs(pairs ...string) *Calls {
	c := NewCalls()
	for i := 0; i+1 < len(pairs); i += 2 {
		c.Set(pairs[i], pairs[i+1])
	}
	return c
}

// Set records the genotype for id.
func (c *Calls) Set(id, genotype string) {
	if _, ok := c.values[id]; !ok {
		c.order = append(c.order, id)
	}
	c.values[id] = genotype
}

// Get returns the genotype for id.
func (c *Calls) Get(id string) (string, bool) {
	gt, ok := c.values[id]
	return gt, ok
}

// Len returns the number of variants called.
func (c *Calls) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IDs returns variant IDs in first-seen order.
func (c *Calls) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Map returns a copy of the calls as a plain map.
func (c *Calls) Map() map[string]string {
	m := make(map[string]string, c.Len())
	if c == nil {
		return m
	}
	for k, v := range c.values {
		m[k] = v
	}
	return m
}

// MarshalJSON encodes the calls as a JSON object in first-seen order.
func (c *Calls) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range c.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.values[id])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
