// Package docs holds the OpenAPI document for the view API
package docs

import _ "embed"

//go:generate swag init --v3.1 --parseInternal --outputTypes json -d ../../../.. -g cmd/visitsdash/main.go -o . --exclude _examples

// JSON is the document as last generated from the handler annotations
//
//go:embed swagger.json
var JSON string
