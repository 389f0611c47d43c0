package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pivolan/analysis_server/domain/models"
)

// jsonObject keeps keys in document order so columns come out the way they were written.
type jsonObject struct {
	keys   []string
	values map[string]interface{}
}

// jsonText is a string decoded from JSON. It is always text: no missing markers, no number or date sniffing.
type jsonText string

// columnCollector assembles rows with differing keys into aligned columns.
type columnCollector struct {
	order []string
	cols  map[string][]interface{}
	rows  int
}

func newColumnCollector() *columnCollector {
	return &columnCollector{cols: make(map[string][]interface{})}
}

func (c *columnCollector) addRow(keys []string, values map[string]interface{}) {
	for _, key := range keys {
		col, ok := c.cols[key]
		if !ok {
			col = make([]interface{}, c.rows)
			c.order = append(c.order, key)
		}
		c.cols[key] = append(col, values[key])
	}
	c.rows++
	for _, key := range c.order {
		if len(c.cols[key]) < c.rows {
			c.cols[key] = append(c.cols[key], nil)
		}
	}
}

func (c *columnCollector) raw() []rawColumn {
	out := make([]rawColumn, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, rawColumn{name: key, values: c.cols[key]})
	}
	return out
}

func parseJSON(raw []byte) (*models.Table, error) {
	root, err := decodeJSONDocument(bytes.TrimPrefix(raw, utf8BOM))
	if err != nil {
		return nil, parseFailure("%v", err)
	}

	switch v := root.(type) {
	case []interface{}:
		c := newColumnCollector()
		for _, item := range v {
			keys, values := rowFields(item)
			c.addRow(keys, values)
		}
		return buildTable(c.raw()), nil
	case *jsonObject:
		if isColumnOriented(v) {
			raws, err := columnsFromObject(v)
			if err != nil {
				return nil, err
			}
			return buildTable(raws), nil
		}
		c := newColumnCollector()
		keys, values := flattenObject(v)
		c.addRow(keys, values)
		return buildTable(c.raw()), nil
	}
	return nil, newParseError(UnsupportedJSONStructure, fmt.Errorf("top-level %T", root))
}

func isColumnOriented(obj *jsonObject) bool {
	for _, key := range obj.keys {
		if _, ok := obj.values[key].([]interface{}); !ok {
			return false
		}
	}
	return true
}

func columnsFromObject(obj *jsonObject) ([]rawColumn, error) {
	raws := make([]rawColumn, 0, len(obj.keys))
	for _, key := range obj.keys {
		arr := obj.values[key].([]interface{})
		if len(raws) > 0 && len(arr) != len(raws[0].values) {
			return nil, parseFailure("all arrays must be of the same length")
		}
		values := make([]interface{}, len(arr))
		for i, item := range arr {
			values[i] = cellValue(item)
		}
		raws = append(raws, rawColumn{name: key, values: values})
	}
	return raws, nil
}

// rowFields turns one array element into named fields. Scalars land in column "0".
func rowFields(item interface{}) ([]string, map[string]interface{}) {
	switch v := item.(type) {
	case *jsonObject:
		return flattenObject(v)
	case []interface{}:
		keys := make([]string, len(v))
		values := make(map[string]interface{}, len(v))
		for i, x := range v {
			keys[i] = strconv.Itoa(i)
			values[keys[i]] = cellValue(x)
		}
		return keys, values
	}
	return []string{"0"}, map[string]interface{}{"0": cellValue(item)}
}

// flattenObject joins nested keys with dots: {"a":{"b":1}} gives "a.b".
func flattenObject(obj *jsonObject) ([]string, map[string]interface{}) {
	var keys []string
	values := make(map[string]interface{})
	var walk func(o *jsonObject, prefix string)
	walk = func(o *jsonObject, prefix string) {
		for _, key := range o.keys {
			name := key
			if prefix != "" {
				name = prefix + "." + key
			}
			if nested, ok := o.values[key].(*jsonObject); ok && len(nested.keys) > 0 {
				walk(nested, name)
				continue
			}
			if _, seen := values[name]; !seen {
				keys = append(keys, name)
			}
			values[name] = cellValue(o.values[key])
		}
	}
	walk(obj, "")
	return keys, values
}

// cellValue keeps scalars, marks strings as jsonText and serializes containers back to JSON text.
func cellValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return jsonText(val)
	case *jsonObject, []interface{}:
		b, err := json.Marshal(plainJSON(v))
		if err != nil {
			return nil
		}
		return jsonText(b)
	}
	return v
}

func plainJSON(v interface{}) interface{} {
	switch val := v.(type) {
	case *jsonObject:
		m := make(map[string]interface{}, len(val.keys))
		for _, k := range val.keys {
			m[k] = plainJSON(val.values[k])
		}
		return m
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, x := range val {
			out[i] = plainJSON(x)
		}
		return out
	}
	return v
}

func decodeJSONDocument(raw []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	root, err := decodeOrdered(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("extra data after JSON document")
	}
	return root, nil
}

func decodeOrdered(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := &jsonObject{values: make(map[string]interface{})}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := kt.(string)
			val, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			if _, dup := obj.values[key]; !dup {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []interface{}{}
		for dec.More() {
			val, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}
