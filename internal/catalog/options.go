package catalog

import (
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
)

// Options are caller-supplied rendering options for definition text.
// A normalized Options value is never nil.
type Options map[string]any

// NormalizeOptions returns a copy of opts, or an empty map when opts is nil.
func NormalizeOptions(opts map[string]any) Options {
	if opts == nil {
		return Options{}
	}
	return Options(maps.Clone(opts))
}

// ScriptOptions are the rendering options understood by tables and views.
// Unknown option keys are ignored.
type ScriptOptions struct {
	// FullNames qualifies object names with their schema.
	FullNames bool `mapstructure:"script.format.fullNames"`
	// Compact renders the statement on a single line.
	Compact bool `mapstructure:"script.format.compact"`
	// IncludeDrop prepends a DROP ... IF EXISTS statement.
	IncludeDrop bool `mapstructure:"script.includeDrop"`
	// IncludeComments prepends the object comment as a SQL comment.
	IncludeComments bool `mapstructure:"script.includeComments"`
}

// DefaultScriptOptions returns the options used when none are supplied.
func DefaultScriptOptions() ScriptOptions {
	return ScriptOptions{FullNames: true, IncludeComments: true}
}

// DecodeScriptOptions decodes opts over DefaultScriptOptions. Values are
// weakly typed, so "true" and 1 both enable a flag. Nested maps are
// flattened with dots, so {"script": {"includeDrop": true}} equals
// {"script.includeDrop": true}.
func DecodeScriptOptions(opts Options) (ScriptOptions, error) {
	out := DefaultScriptOptions()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, fmt.Errorf("failed to create options decoder: %w", err)
	}
	if err := dec.Decode(flatten("", opts)); err != nil {
		return out, fmt.Errorf("invalid script options: %w", err)
	}
	return out, nil
}

func flatten(prefix string, in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch nested := v.(type) {
		case map[string]any:
			maps.Copy(out, flatten(key, nested))
		case Options:
			maps.Copy(out, flatten(key, nested))
		default:
			out[key] = v
		}
	}
	return out
}
