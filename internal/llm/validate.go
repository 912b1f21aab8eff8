package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

// CompileSchema compiles a schema given as a generic map.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

var candidateSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return CompileSchema(BuildCandidateJSONSchema())
})

// schemaRule checks one field on its own; the other properties are absent from the
// probe object so only the field's own constraint applies.
func schemaRule(schema *jsonschema.Schema) common.ValidationRule {
	return func(field string, value any) *common.ValidationError {
		if err := schema.Validate(map[string]any{field: value}); err != nil {
			return &common.ValidationError{
				Field:   field,
				Value:   value,
				Message: "does not match schema: " + strings.Join(strings.Fields(err.Error()), " "),
			}
		}
		return nil
	}
}

// PruneCandidate checks every field of c against BuildCandidateJSONSchema and deletes
// the fields whose shape is wrong, keeping the rest of the candidate. The returned
// validator lists what was removed.
func PruneCandidate(c Candidate) (*common.Validator, error) {
	schema, err := candidateSchema()
	if err != nil {
		return nil, err
	}
	rule := schemaRule(schema)
	v := common.NewValidator()
	for _, k := range slices.Sorted(maps.Keys(c)) {
		v.Field(k, c[k], rule)
	}
	for _, e := range v.Errors() {
		delete(c, e.Field)
	}
	return v, nil
}
