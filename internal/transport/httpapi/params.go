package httpapi

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// QueryParam adds a form-style exploded query parameter to values.
// Empty strings are skipped.
func QueryParam(values url.Values, name string, value any) error {
	if s, ok := value.(string); ok && s == "" {
		return nil
	}
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return fmt.Errorf("style query param %s: %w", name, err)
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return fmt.Errorf("parse query param %s: %w", name, err)
	}
	for k, vs := range parsed {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	return nil
}

// PathParam escapes a path segment using the simple style.
func PathParam(name, value string) (string, error) {
	s, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("style path param %s: %w", name, err)
	}
	return s, nil
}
