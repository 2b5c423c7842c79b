package llm

import "fmt"

// StringArgs coerces decoded tool-call arguments to the string-typed
// schema every tool declares. Non-string values are formatted rather
// than rejected; handlers re-validate their inputs anyway.
func StringArgs(raw map[string]any) map[string]string {
	args := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			args[k] = s
			continue
		}
		args[k] = fmt.Sprint(v)
	}
	return args
}
