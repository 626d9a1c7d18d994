// Package swagger registers the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o api/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/tax/compute": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tax"],
                "summary": "Compute a declaration",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/tax/dividend-entries": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tax"],
                "summary": "Create a dividend entry",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/filings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["filings"],
                "summary": "List filings",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["filings"],
                "summary": "Create a filing",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/filings/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/xml"],
                "produces": ["application/json"],
                "tags": ["filings"],
                "summary": "Import a filing from XML",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/filings/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["filings"],
                "summary": "Get a filing",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["filings"],
                "summary": "Update a filing",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["filings"],
                "summary": "Delete a filing",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/filings/{id}/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["filings"],
                "summary": "Get the handoff summary",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/filings/{id}/export.xml": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/xml"],
                "tags": ["filings"],
                "summary": "Export a filing as XML",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "filing XML document", "schema": {"type": "string"}}}
            }
        },
        "/api/filings/{id}/reviews": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Request a review",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/reviews": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "List reviews",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/reviews/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Approve a review",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/reviews/{id}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reviews"],
                "summary": "Reject a review",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/audit-logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["audit"],
                "summary": "Get audit logs",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/statistics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["statistics"],
                "summary": "Get filing statistics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/users": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a taxpayer",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Get current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "status": {"type": "string"},
                "status_code": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Personal Income Tax Filing API",
	Description:      "Computes DPFO type B returns, flags compliance risks and hands filings over to accountants.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
