package openapi

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-rowform/pkg/model"
)

const (
	extensionType    = "x-rowform-type"
	extensionOptions = "x-rowform-options"
	extensionOrder   = "x-rowform-order"
)

func stringExtension(ext map[string]any, key string) string {
	if len(ext) == 0 {
		return ""
	}
	value, ok := ext[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

// stringListExtension reads a list of strings. Non-string entries are skipped.
func stringListExtension(ext map[string]any, key string) []string {
	if len(ext) == 0 {
		return nil
	}
	raw, ok := ext[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		if value, ok := entry.(string); ok && strings.TrimSpace(value) != "" {
			out = append(out, strings.TrimSpace(value))
		}
	}
	return out
}

// optionsExtension reads x-rowform-options. Entries are either plain strings
// or objects with value and user_id keys.
func optionsExtension(ext map[string]any) ([]model.Option, error) {
	if len(ext) == 0 {
		return nil, nil
	}
	rawValue, present := ext[extensionOptions]
	if !present {
		return nil, nil
	}
	raw, ok := rawValue.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list, got %T", extensionOptions, rawValue)
	}
	out := make([]model.Option, 0, len(raw))
	for idx, entry := range raw {
		switch v := entry.(type) {
		case string:
			out = append(out, model.Option{Value: v})
		case map[string]any:
			option := model.Option{}
			if value, ok := v["value"].(string); ok {
				option.Value = value
			}
			if userID, ok := v["user_id"].(string); ok {
				option.UserID = userID
			}
			if option.Value == "" {
				return nil, fmt.Errorf("%s[%d] has no value", extensionOptions, idx)
			}
			out = append(out, option)
		default:
			return nil, fmt.Errorf("%s[%d] has unsupported type %T", extensionOptions, idx, entry)
		}
	}
	return out, nil
}
