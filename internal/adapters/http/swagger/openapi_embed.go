package swagger

import _ "embed"

// OpenAPI is the OpenAPI 3 document of the scoring API.
//
//go:embed openapi.yaml
var OpenAPI []byte
