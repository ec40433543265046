//go:build swag

package swaggerkit

import docs "visitsdash/internal/services/web/docs"

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }
