// Package yaml decodes YAML input into modelv.RawValue via gopkg.in/yaml.v3.
package yaml

import (
	y "gopkg.in/yaml.v3"

	modelv "github.com/modelv/modelv"
)

// DecodeBytes converts a YAML document into a RawValue. YAML integers and
// floats arrive as Go ints/float64s and pass through FromAny's numeric
// bridging.
func DecodeBytes(b []byte) (modelv.RawValue, error) {
	var v any
	if err := y.Unmarshal(b, &v); err != nil {
		return modelv.Null(), err
	}
	return modelv.FromAny(v), nil
}
