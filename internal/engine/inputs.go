package engine

// #region inputs
// Inputs is the raw input mapping handed to an engine. Every read goes
// through a typed accessor with an explicit default, so engines never fail
// on missing or malformed fields.
type Inputs map[string]any

// Float reads a numeric field, returning def when absent or non-numeric.
func (in Inputs) Float(key string, def float64) float64 {
	if v, ok := toFloat(in[key]); ok {
		return v
	}
	return def
}

// MaybeFloat reads a numeric field that may legitimately be unknown,
// such as a previous-observation value. Returns nil when absent.
func (in Inputs) MaybeFloat(key string) *float64 {
	if v, ok := toFloat(in[key]); ok {
		return &v
	}
	return nil
}

// Bool reads a boolean field, returning def when absent or non-boolean.
func (in Inputs) Bool(key string, def bool) bool {
	if v, ok := in[key].(bool); ok {
		return v
	}
	return def
}

// String reads a string field, returning def when absent or empty.
func (in Inputs) String(key string, def string) string {
	if v, ok := in[key].(string); ok && v != "" {
		return v
	}
	return def
}

// #endregion inputs

// #region to-float
// toFloat accepts the numeric shapes that survive JSON and YAML decoding.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// #endregion to-float
