package composition

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/spf13/cast"
)

// lookup finds a parameter case-insensitively; viper lowercases keys on load
// while programmatic workflows may not
func lookup(params map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := params[key]; ok {
		return v, true
	}
	for k, v := range params {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func stringParam(params map[string]interface{}, key string) string {
	v, ok := lookup(params, key)
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func requireString(params map[string]interface{}, key string) (string, error) {
	s := stringParam(params, key)
	if s == "" {
		return "", fmt.Errorf("%w: parameter '%s' is required", errors.ErrInvalidArgument, key)
	}
	return s, nil
}

func boolParam(params map[string]interface{}, key string, def bool) (bool, error) {
	v, ok := lookup(params, key)
	if !ok || v == nil || v == "" {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def, fmt.Errorf("%w: parameter '%s': %v", errors.ErrInvalidArgument, key, err)
	}
	return b, nil
}
