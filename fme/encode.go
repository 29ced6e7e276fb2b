package fme

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// YAML encodes v (a Spec, a FindMatchEditElement or a map of them) with a
// two space indent.
func YAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON encodes v indented, with a trailing newline.
func JSON(v any) ([]byte, error) {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(d, '\n'), nil
}
