package commands

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/forgo/factory/pkg/factory"
)

// parseSet turns --set key=value pairs into overrides. Values are YAML, so
// "3" is an int, "true" a bool and "[a, b]" a list.
func parseSet(pairs []string) (factory.Attrs, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(factory.Attrs, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", pair)
		}
		if raw == "" {
			out[key] = ""
			continue
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", pair, err)
		}
		out[key] = v
	}
	return out, nil
}

// buildArgs assembles factory arguments: count (when positive), traits,
// then overrides.
func buildArgs(count int, traits []string, overrides factory.Attrs) []any {
	args := make([]any, 0, len(traits)+2)
	if count > 0 {
		args = append(args, count)
	}
	for _, t := range traits {
		args = append(args, t)
	}
	if overrides != nil {
		args = append(args, overrides)
	}
	return args
}
