package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/vvalues/internal/trace"
)

// marshalOperands stores operand renderings as a canonical JSON array.
func marshalOperands(operands []string) (string, error) {
	if operands == nil {
		operands = []string{}
	}
	data, err := trace.MarshalCanonical(operands)
	if err != nil {
		return "", fmt.Errorf("marshal operands: %w", err)
	}
	return string(data), nil
}

func unmarshalOperands(data string) ([]string, error) {
	operands := []string{}
	if err := json.Unmarshal([]byte(data), &operands); err != nil {
		return nil, fmt.Errorf("unmarshal operands: %w", err)
	}
	return operands, nil
}
