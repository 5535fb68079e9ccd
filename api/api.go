// Package api holds the OpenAPI contract of the HTTP adapter.
package api

import (
	_ "embed"
)

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config=oapi-codegen.yml openapi.yml

// Spec is the OpenAPI document served and bound by the HTTP adapter.
//
//go:embed openapi.yml
var Spec []byte
