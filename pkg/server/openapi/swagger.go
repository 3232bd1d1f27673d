package openapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/nimburion/catalog-api/pkg/server/router"
)

// SwaggerPath is where the interactive documentation page is mounted.
const SwaggerPath = "/swagger"

// swaggerUIVersion pins the swagger-ui-dist assets loaded from unpkg.
const swaggerUIVersion = "5.10.0"

var swaggerPage = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui.css">
</head>
<body style="margin:0">
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui-bundle.js"></script>
<script>
window.onload = function () {
  window.ui = SwaggerUIBundle({url: "{{.SpecURL}}", dom_id: "#swagger-ui", deepLinking: true});
};
</script>
</body>
</html>
`))

// SwaggerPage renders a Swagger UI page for the document at specURL once
// and returns a handler serving the cached bytes.
func SwaggerPage(title, specURL string) (router.HandlerFunc, error) {
	var buf bytes.Buffer
	err := swaggerPage.Execute(&buf, struct{ Title, SpecURL, Version string }{title, specURL, swaggerUIVersion})
	if err != nil {
		return nil, err
	}
	page := buf.Bytes()

	return func(c router.Context) error {
		c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
		c.Response().WriteHeader(http.StatusOK)
		_, err := c.Response().Write(page)
		return err
	}, nil
}
