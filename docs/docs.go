// Package docs registers the OpenAPI description served under /swagger.
// Regenerate the operations with `swag init -g cmd/main.go` after changing
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/token": {"post": {"tags": ["auth"], "summary": "Operator token"}},
        "/players": {
            "get": {"tags": ["players"], "summary": "List players"},
            "put": {"tags": ["players"], "summary": "Replace the roster", "security": [{"BearerAuth": []}]}
        },
        "/organizations": {"post": {"tags": ["players"], "summary": "Import organizations", "security": [{"BearerAuth": []}]}},
        "/categories": {"get": {"tags": ["brackets"], "summary": "Categories of a gender"}},
        "/categories/selection": {"get": {"tags": ["brackets"], "summary": "Resolve a category selection"}},
        "/brackets": {"get": {"tags": ["brackets"], "summary": "Brackets"}},
        "/brackets/generate": {"post": {"tags": ["brackets"], "summary": "Generate every bracket", "security": [{"BearerAuth": []}]}},
        "/points": {"get": {"tags": ["results"], "summary": "Points"}},
        "/result-tables/{name}": {"get": {"tags": ["results"], "summary": "Render a result table"}},
        "/exports/{name}": {"post": {"tags": ["results"], "summary": "Export a table as CSV", "security": [{"BearerAuth": []}]}},
        "/state": {
            "get": {"tags": ["state"], "summary": "Current state document"},
            "put": {"tags": ["state"], "summary": "Replace the state", "security": [{"BearerAuth": []}]}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "bracket-manager API",
	Description:      "Bracket generation and category partitioning for judo tournaments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
