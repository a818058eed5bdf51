package trace

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Log is the export envelope for one session.
type Log struct {
	Session string  `cbor:"1,keyasint"`
	Events  []Event `cbor:"2,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalCBOR serializes a session log to canonical CBOR.
func MarshalCBOR(l Log) ([]byte, error) {
	return cborEncMode.Marshal(l)
}

// UnmarshalCBOR deserializes a session log from CBOR bytes.
func UnmarshalCBOR(data []byte) (Log, error) {
	var l Log
	if err := cbor.Unmarshal(data, &l); err != nil {
		return Log{}, fmt.Errorf("trace: unmarshal log: %w", err)
	}
	return l, nil
}
