package openapi

import _ "embed"

// Spec OpenAPI仕様ファイルの内容
//
//go:embed openapi.yaml
var Spec []byte
