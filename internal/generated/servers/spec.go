package servers

import (
	"production/api"

	"github.com/getkin/kin-openapi/openapi3"
)

// GetSwagger parses the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	return loader.LoadFromData(api.Spec)
}
