// Package docs registers the OpenAPI description of the machine surface with swag.
package docs

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
        "/": {
            "get": {
                "description": "Selects login-for-gpt, inventory-for-gpt or shipments-for-gpt via the api query parameter.",
                "produces": ["application/json"],
                "tags": ["gpt"],
                "summary": "Dispatch a machine-surface call",
                "parameters": [
                    {"type": "string", "description": "API name", "name": "api", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.QueryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/api/login-for-gpt": {
            "get": {
                "produces": ["application/json"],
                "tags": ["gpt"],
                "summary": "Log in to MES",
                "parameters": [
                    {"type": "string", "description": "MES user key", "name": "userKey", "in": "query", "required": true},
                    {"type": "string", "description": "MES password", "name": "password", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/api/inventory-for-gpt": {
            "get": {
                "produces": ["application/json"],
                "tags": ["gpt"],
                "summary": "Query inventory lots",
                "parameters": [
                    {"type": "string", "description": "Session id from login", "name": "session_id", "in": "query", "required": true},
                    {"type": "string", "description": "Item code substring", "name": "itemCode", "in": "query"},
                    {"type": "string", "description": "Item name substring", "name": "itemName", "in": "query"},
                    {"type": "string", "description": "Warehouse code substring", "name": "warehouseCode", "in": "query"},
                    {"type": "string", "description": "Lot code substring", "name": "lotCode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.QueryResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/api/shipments-for-gpt": {
            "get": {
                "produces": ["application/json"],
                "tags": ["gpt"],
                "summary": "Query shipment results",
                "parameters": [
                    {"type": "string", "description": "Session id from login", "name": "session_id", "in": "query", "required": true},
                    {"type": "string", "description": "First day, YYYY-MM-DD", "name": "date_from", "in": "query", "required": true},
                    {"type": "string", "description": "Last day, YYYY-MM-DD", "name": "date_to", "in": "query", "required": true},
                    {"type": "string", "description": "Item code substring", "name": "itemCode", "in": "query"},
                    {"type": "string", "description": "Lot code substring", "name": "lotCode", "in": "query"},
                    {"type": "string", "description": "Partner code substring", "name": "partnerCode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.QueryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Profile": {
            "type": "object",
            "properties": {
                "userKey": {"type": "string"},
                "companyCode": {"type": "string"},
                "companyId": {"type": "string"},
                "plantId": {"type": "string"},
                "plantCode": {"type": "string"},
                "languageCode": {"type": "string"},
                "userName": {"type": "string"}
            }
        },
        "handler.APIResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "message": {"type": "string"},
                "session_id": {"type": "string"},
                "profile": {"$ref": "#/definitions/domain.Profile"}
            }
        },
        "handler.QueryResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "message": {"type": "string"},
                "rows": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "total": {"type": "integer"},
                "fetched": {"type": "integer"},
                "truncated": {"type": "boolean"}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "sessions": {"type": "integer"},
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MES Helper API",
	Description:      "Fetch-then-filter access to QFactory MES inventory lots and shipment results.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
