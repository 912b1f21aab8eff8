package llm

import (
	"log/slog"
	"strings"
)

// SanitizeCandidate trims string values and drops null, blank and literal "null" values,
// both at the top level and inside additional_fields. It returns the keys it dropped.
func SanitizeCandidate(c Candidate, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	dropped := sanitizeMap(c, "")
	if extra, ok := c["additional_fields"].(map[string]any); ok {
		dropped = append(dropped, sanitizeMap(extra, "additional_fields.")...)
	}
	if len(dropped) > 0 {
		logger.Debug("llm.extract.sanitize", "dropped", dropped)
	}
	return dropped
}

func sanitizeMap(m map[string]any, prefix string) []string {
	var dropped []string
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			delete(m, k)
			dropped = append(dropped, prefix+k+"(null)")
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, prefix+k+"(empty)")
				continue
			}
			m[k] = s
		}
	}
	return dropped
}
