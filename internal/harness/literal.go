package harness

import (
	"fmt"
	"sort"

	"github.com/roach88/vvalues/internal/value"
)

// resolve turns a scenario literal into a value.
func (h *Harness) resolve(lit any) (value.Value, error) {
	switch v := lit.(type) {
	case nil:
		return value.Null, nil
	case bool:
		return value.Bool(v), nil
	case int:
		return value.Int(int64(v)), nil
	case int64:
		return value.Int(v), nil
	case uint64:
		return value.Number(float64(v)), nil
	case float64:
		return value.Number(v), nil
	case string:
		if name, ok := refName(v); ok {
			bound, ok := h.bindings[name]
			if !ok {
				return value.Undefined, fmt.Errorf("unbound name %q", v)
			}
			return bound, nil
		}
		switch v {
		case "@undefined":
			return value.Undefined, nil
		case "@null":
			return value.Null, nil
		case "@nan":
			return value.NaN, nil
		}
		return value.String(v), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		props := make(map[string]value.Value, len(v))
		for k, raw := range v {
			pv, err := h.resolve(raw)
			if err != nil {
				return value.Undefined, fmt.Errorf("property %q: %w", k, err)
			}
			keys = append(keys, k)
			props[k] = pv
		}
		sort.Strings(keys)
		return value.ObjectValue(value.FromMap(keys, props)), nil
	}
	return value.Undefined, fmt.Errorf("unsupported literal %v (%T)", lit, lit)
}

func (h *Harness) resolveAll(lits []any) ([]value.Value, error) {
	out := make([]value.Value, len(lits))
	for i, lit := range lits {
		v, err := h.resolve(lit)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// matches compares a step result with its expectation. References compare
// by identity, NaN matches NaN, and everything else compares by rendering.
func (h *Harness) matches(expect any, got value.Value) (bool, error) {
	want, err := h.resolve(expect)
	if err != nil {
		return false, err
	}
	if _, isRef := refName(expect); isRef {
		return value.StrictEquals(want, got), nil
	}
	return value.Inspect(want) == value.Inspect(got), nil
}
