package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"int64", int64(-7), "-7"},
		{"bool", true, "true"},
		{"empty array", []any{}, "[]"},
		{"strings", []string{"a", "b"}, `["a","b"]`},
		{"sorted keys", map[string]any{"zebra": 1, "alpha": 2}, `{"alpha":2,"zebra":1}`},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"line separator literal", "a\u2028b", "\"a\u2028b\""},
		{"escaped backslash kept", `\u2028`, `"\\u2028"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalCanonicalNFC(t *testing.T) {
	decomposed := "e\u0301"
	got, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates starting 0xD83D, so it sorts before
	// U+FF61 in UTF-16 code units but after it in UTF-8 bytes.
	got, err := MarshalCanonical(map[string]any{"\U0001F600": 1, "\uFF61": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":1,\"\uFF61\":2}", string(got))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)
	_, err = MarshalCanonical(1.5)
	assert.Error(t, err)
	_, err = MarshalCanonical(map[string]any{"k": struct{}{}})
	assert.ErrorContains(t, err, `value for key "k"`)
}

func TestMarshalCanonicalEvents(t *testing.T) {
	events := []Event{
		{Seq: 1, Session: "s", Site: "unary", Operator: "-", Route: "native", Operands: []string{"1"}, Result: "-1"},
		{Seq: 2, Session: "s", Site: "branch", Operator: "?:", Route: "rejected", Operands: []string{"true", "undefined"}, Result: "undefined", Error: "boom"},
	}
	got, err := MarshalCanonical(events)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"operands":["1"],"operator":"-","result":"-1","route":"native","seq":1,"session":"s","site":"unary"},`+
			`{"error":"boom","operands":["true","undefined"],"operator":"?:","result":"undefined","route":"rejected","seq":2,"session":"s","site":"branch"}]`,
		string(got))
}

func TestCBORRoundTrip(t *testing.T) {
	l := Log{
		Session: "s",
		Events: []Event{
			{Seq: 1, Session: "s", Site: "binary", Operator: "+", Route: "left", Operands: []string{"wrapped#1.1", "2"}, Result: "3"},
		},
	}
	data, err := MarshalCBOR(l)
	require.NoError(t, err)

	again, err := MarshalCBOR(l)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	got, err := UnmarshalCBOR(data)
	require.NoError(t, err)
	assert.Equal(t, l, got)

	_, err = UnmarshalCBOR([]byte{0xff})
	assert.Error(t, err)
}
