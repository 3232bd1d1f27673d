// Package factory selects a router adapter by name.
package factory

import (
	"fmt"
	"strings"

	"github.com/nimburion/catalog-api/pkg/server/router"
	ginadapter "github.com/nimburion/catalog-api/pkg/server/router/gin"
	gorillaadapter "github.com/nimburion/catalog-api/pkg/server/router/gorilla"
)

const (
	Gin     = "gin"
	Gorilla = "gorilla"

	// DefaultType is used when router_type is empty.
	DefaultType = Gin
)

// NewRouter returns the adapter named by routerType. Matching ignores case
// and surrounding whitespace.
func NewRouter(routerType string) (router.Router, error) {
	switch name := strings.ToLower(strings.TrimSpace(routerType)); name {
	case "", Gin:
		return ginadapter.NewRouter(), nil
	case Gorilla:
		return gorillaadapter.NewRouter(), nil
	default:
		return nil, fmt.Errorf("unsupported router type %q (supported: %s)", routerType, strings.Join(SupportedTypes(), ", "))
	}
}

// SupportedTypes lists the accepted router_type values.
func SupportedTypes() []string {
	return []string{Gin, Gorilla}
}
