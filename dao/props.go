// dao/props.go
package dao

import (
	"context"
	"fmt"
	"time"

	helper_util "github.com/fayhaa-municipality/complaints-api/util/helper"
)

// Property accessors tolerant of absent keys. Optional complaint and user
// fields are simply never set on the node, so missing means zero value.

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func intProp(props map[string]interface{}, key string) int {
	if v, ok := props[key].(int64); ok {
		return int(v)
	}
	return 0
}

func boolProp(props map[string]interface{}, key string) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return false
}

func floatProp(props map[string]interface{}, key string) float64 {
	if v, ok := props[key].(float64); ok {
		return v
	}
	return 0
}

func floatPtrProp(props map[string]interface{}, key string) *float64 {
	if v, ok := props[key].(float64); ok {
		return &v
	}
	return nil
}

func stringSliceProp(props map[string]interface{}, key string) []string {
	raw, ok := props[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func timeProp(props map[string]interface{}, key string) (time.Time, error) {
	raw, ok := props[key].(string)
	if !ok || raw == "" {
		return time.Time{}, nil
	}
	t, err := helper_util.ParseTime(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return t, nil
}

func timePtrProp(props map[string]interface{}, key string) (*time.Time, error) {
	raw, ok := props[key]
	if !ok || raw == "" {
		return nil, nil
	}
	t, err := helper_util.ParseNullableTime(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return t, nil
}

// actorIDFromContext reads the requesting user's ID placed in the context by
// the auth middleware. Unauthenticated paths (sign-up) record "system".
func actorIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value("requestingUserID").(string); ok && v != "" {
		return v
	}
	return "system"
}
