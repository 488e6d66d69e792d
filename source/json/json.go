// Package json decodes JSON input into modelv.RawValue, backed by
// goccy/go-json. Numbers are kept as json.Number so integer precision
// survives until coercion.
package json

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"

	modelv "github.com/modelv/modelv"
)

// DecodeBytes converts a JSON document into a RawValue.
func DecodeBytes(b []byte) (modelv.RawValue, error) {
	return DecodeReader(bytes.NewReader(b))
}

// DecodeReader converts a JSON stream into a RawValue.
func DecodeReader(r io.Reader) (modelv.RawValue, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return modelv.Null(), err
	}
	return modelv.FromAny(v), nil
}
