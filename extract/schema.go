package extract

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

var reflector = &jsonschema.Reflector{
	DoNotReference: true,
	ExpandedStruct: true,
}

// Schema renders the JSON schema of v for embedding in a prompt. It returns
// "{}" if the schema cannot be marshaled.
func Schema(v any) string {
	s := reflector.Reflect(v)
	s.Version = ""
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
