package portfolio

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// SchemaJSON returns the raw JSON Schema for the portfolio shape. It doubles
// as the response-schema constraint sent to the generative model.
func SchemaJSON() []byte { return schemaJSON }

// Validate checks raw JSON against the portfolio schema. A document missing
// any required member is a contract violation, not partial success.
func Validate(raw []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	docLoader := gojsonschema.NewBytesLoader(raw)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("validate portfolio: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("portfolio schema violation: %s", strings.Join(msgs, "; "))
}

// Parse validates raw model output and unmarshals it into Data.
func Parse(raw []byte) (Data, error) {
	if err := Validate(raw); err != nil {
		return Data{}, err
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("decode portfolio: %w", err)
	}
	return d, nil
}
