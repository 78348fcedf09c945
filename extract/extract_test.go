package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	Direction    string  `json:"direction" validate:"required"`
	Instructions string  `json:"instructions"`
	Score        float64 `json:"score,omitempty" validate:"gte=0,lte=100"`
}

func TestObjectSpan(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "prose around", in: "Sure! Here you go: {\"a\":1} hope it helps", want: `{"a":1}`},
		{name: "markdown fence", in: "```json\n{\"a\":{\"b\":2}}\n```", want: `{"a":{"b":2}}`},
		{name: "first to last brace", in: `{"a":1} and {"b":2}`, want: `{"a":1} and {"b":2}`},
		{name: "no braces", in: "no structure here", wantErr: true},
		{name: "only opening", in: "{ unfinished", wantErr: true},
		{name: "reversed", in: "} oops {", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ObjectSpan(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoObject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode(t *testing.T) {
	var r reply
	err := Decode("analysis: {\"direction\": \"structure\", \"instructions\": \"use headings\"}", &r)
	require.NoError(t, err)
	assert.Equal(t, "structure", r.Direction)
	assert.Equal(t, "use headings", r.Instructions)
}

func TestDecodeFailures(t *testing.T) {
	var r reply
	assert.ErrorIs(t, Decode("nothing", &r), ErrNoObject)
	assert.Error(t, Decode(`{"direction": }`, &r), "malformed JSON")
	assert.Error(t, Decode(`{"instructions": "x"}`, &r), "missing required field")
	assert.Error(t, Decode(`{"direction": "x", "score": 140}`, &r), "out of range")
	assert.Error(t, Decode(`{"a":1} and {"b":2}`, &r), "two objects")
}

func TestDecodeOrReturnsDefault(t *testing.T) {
	def := reply{Direction: "specific", Instructions: "include concrete figures and examples"}

	got, err := DecodeOr("the model rambled", def)
	assert.Error(t, err)
	assert.Equal(t, def, got)

	got, err = DecodeOr(`{"direction":"persuasive","instructions":"address investors"}`, def)
	require.NoError(t, err)
	assert.Equal(t, "persuasive", got.Direction)
}

func TestSchemaListsFields(t *testing.T) {
	s := Schema(&reply{})
	assert.Contains(t, s, `"direction"`)
	assert.Contains(t, s, `"instructions"`)
	assert.Contains(t, s, `"properties"`)
	assert.NotContains(t, s, `"$ref"`)
}
