//go:build !swag

package swaggerkit

import docs "visitsdash/internal/services/web/docs"

// docReader serves the checked in document when swag is not compiled in
var docReader = func() string { return docs.JSON }
