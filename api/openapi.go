// Package api holds the OpenAPI description of the logbook HTTP interface.
package api

import _ "embed"

// OpenAPISpec is the raw OpenAPI 3 document served at /api/docs/openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
