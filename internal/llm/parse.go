package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

// ParseCandidate pulls the JSON object out of a model reply. Models often wrap the object
// in prose or code fences, so everything from the first '{' to the last '}' is decoded.
func ParseCandidate(text string) (Candidate, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", common.ErrMalformedOutput)
	}

	var c Candidate
	if err := json.Unmarshal([]byte(text[start:end+1]), &c); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedOutput, err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: empty object", common.ErrMalformedOutput)
	}
	return c, nil
}
