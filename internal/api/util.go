package api

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
)

// normalizeTimestamps recursively renames GORM timestamp keys from CamelCase
// (CreatedAt, UpdatedAt, DeletedAt) to snake_case keys (created_at, updated_at, deleted_at)
// so frontend clients consistently receive snake_case timestamps.
func normalizeTimestamps(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeTimestamps(val)
		}
		if val, ok := vv["CreatedAt"]; ok {
			vv["created_at"] = val
			delete(vv, "CreatedAt")
		}
		if val, ok := vv["UpdatedAt"]; ok {
			vv["updated_at"] = val
			delete(vv, "UpdatedAt")
		}
		if val, ok := vv["DeletedAt"]; ok {
			vv["deleted_at"] = val
			delete(vv, "DeletedAt")
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeTimestamps(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalIntoSnakeTimestamps marshals the given value into JSON, then decodes
// into an interface{} and normalizes timestamp keys to snake_case.
func MarshalIntoSnakeTimestamps(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeTimestamps(out), nil
}

// MarshalForContext behaves like MarshalIntoSnakeTimestamps but also
// redacts owner ids that do not belong to the authenticated session user.
// Character owners are emails, so responses must never leak other players'
// addresses (this is a children's game).
func MarshalForContext(c *gin.Context, v interface{}) (interface{}, error) {
	out, err := MarshalIntoSnakeTimestamps(v)
	if err != nil {
		return nil, err
	}
	currentSub := ""
	if c != nil {
		currentSub = currentSubject(c)
	}
	redactOwners(out, currentSub)
	return out, nil
}

// redactOwners walks a marshalled JSON structure and removes any field
// whose key contains "owner" or "email" unless its value equals the
// session subject or the bot sentinel.
func redactOwners(v interface{}, currentSub string) {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			lower := strings.ToLower(k)
			if strings.Contains(lower, "owner") || strings.Contains(lower, "email") {
				if s, ok := val.(string); ok {
					if s == "bot" || (currentSub != "" && s == currentSub) {
						continue
					}
				}
				delete(vv, k)
				continue
			}
			redactOwners(val, currentSub)
		}
	case []interface{}:
		for i := range vv {
			redactOwners(vv[i], currentSub)
		}
	default:
		// primitives: nothing to do
	}
}
