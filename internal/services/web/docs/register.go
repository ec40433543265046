//go:build swag

package docs

import "github.com/swaggo/swag/v2"

// SwaggerInfo registers the document with swag under the "api" instance
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	BasePath:         "/api/v1",
	Title:            "visitsdash view API",
	InfoInstanceName: "api",
	SwaggerTemplate:  JSON,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
