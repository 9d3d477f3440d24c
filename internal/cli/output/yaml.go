package output

import (
	"encoding/json"
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

// Format formats data as YAML. Field names follow the json tags.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	m, err := toPlain(data)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNumbers(m)); err != nil {
		return err
	}
	return enc.Close()
}

// yamlNumbers replaces every json.Number in v with an int64, a uint64 above
// the int64 range, or a float64 otherwise, so numbers encode unquoted.
func yamlNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = yamlNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = yamlNumbers(e)
		}
		return t
	default:
		return v
	}
}
