package trace

import (
	"github.com/roach88/vvalues/internal/intercept"
	"github.com/roach88/vvalues/internal/value"
)

// Event is the serialized form of one dispatch.
//
// Operands and Result are rendered with value.Inspect; wrapped values
// appear as "wrapped#<slot>.<gen>".
type Event struct {
	Seq      int64    `json:"seq" cbor:"1,keyasint"`
	Session  string   `json:"session" cbor:"2,keyasint"`
	Site     string   `json:"site" cbor:"3,keyasint"`
	Operator string   `json:"operator" cbor:"4,keyasint"`
	Route    string   `json:"route" cbor:"5,keyasint"`
	Operands []string `json:"operands" cbor:"6,keyasint"`
	Result   string   `json:"result" cbor:"7,keyasint"`
	Error    string   `json:"error,omitempty" cbor:"8,keyasint,omitempty"`
}

// NewEvent converts a dispatch into an Event.
func NewEvent(seq int64, session string, e intercept.Event) Event {
	operands := make([]string, len(e.Operands))
	for i, v := range e.Operands {
		operands[i] = value.Inspect(v)
	}
	ev := Event{
		Seq:      seq,
		Session:  session,
		Site:     string(e.Site),
		Operator: string(e.Operator),
		Route:    string(e.Route),
		Operands: operands,
		Result:   value.Inspect(e.Result),
	}
	if e.Err != nil {
		ev.Error = e.Err.Error()
	}
	return ev
}

// toMap is the canonical JSON shape of an Event.
func (e Event) toMap() map[string]any {
	operands := make([]any, len(e.Operands))
	for i, o := range e.Operands {
		operands[i] = o
	}
	m := map[string]any{
		"seq":      e.Seq,
		"session":  e.Session,
		"site":     e.Site,
		"operator": e.Operator,
		"route":    e.Route,
		"operands": operands,
		"result":   e.Result,
	}
	if e.Error != "" {
		m["error"] = e.Error
	}
	return m
}
