// Command catalog-api serves the read-only product and service catalog.
package main

import (
	"github.com/nimburion/catalog-api/pkg/app"
	"github.com/nimburion/catalog-api/pkg/catalog"
	"github.com/nimburion/catalog-api/pkg/cli"
)

func main() {
	cli.Execute(cli.NewServiceCommand(cli.ServiceCommandOptions{
		Name:              "catalog-api",
		Description:       "Read-only HTTP API over the products and services collections",
		RunServer:         app.Run,
		CheckDependencies: app.CheckDependencies,
		BuildOpenAPI:      catalog.OpenAPI,
	}))
}
