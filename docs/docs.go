// Swapmatch - Recommendation and Bundle Engine for Peer-to-Peer Item Swaps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swapmatch

// Package docs holds the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/server/docs.go -o docs --outputTypes go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/swapmatch/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Reports version, uptime and database reachability. Always 200; status is \"degraded\" when the database does not answer.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Get service health",
                "responses": {
                    "200": {
                        "description": "Health status",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/models.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/api.HealthStatus"}}}
                            ]
                        }
                    }
                }
            }
        },
        "/users/{userID}/recommendations": {
            "get": {
                "description": "Returns items and two-item bundles ranked for the user, favorites first, scores on a 0-100 scale. Served from cache unless refresh is set.",
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Get ranked recommendations",
                "parameters": [
                    {"type": "string", "description": "User ID (UUID)", "name": "userID", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum results (1-100)", "name": "limit", "in": "query"},
                    {"type": "boolean", "description": "Bypass the cache", "name": "refresh", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "Ranked recommendations",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/models.APIResponse"},
                                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/models.Recommendation"}}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid user ID or limit", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Recommendations unavailable", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/users/{userID}/weights": {
            "get": {
                "description": "Returns the weights currently applied to the user's recommendations.",
                "produces": ["application/json"],
                "tags": ["Weights"],
                "summary": "Get scoring weights",
                "parameters": [
                    {"type": "string", "description": "User ID (UUID)", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "Current weights",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/models.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/models.Weights"}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid user ID", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            },
            "patch": {
                "description": "Merges the given fields over the current weights, clamps each to [0,1] and invalidates the user's cached recommendations.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Weights"],
                "summary": "Update scoring weights",
                "parameters": [
                    {"type": "string", "description": "User ID (UUID)", "name": "userID", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "weights", "in": "body", "required": true, "schema": {"$ref": "#/definitions/validation.WeightsPatchRequest"}}
                ],
                "responses": {
                    "200": {
                        "description": "Updated weights",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/models.APIResponse"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/models.Weights"}}}
                            ]
                        }
                    },
                    "400": {"description": "Invalid user ID or body", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.HealthStatus": {
            "type": "object",
            "properties": {
                "database_connected": {"type": "boolean"},
                "status": {"type": "string"},
                "uptime_seconds": {"type": "number"},
                "version": {"type": "string"}
            }
        },
        "models.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {}},
                "message": {"type": "string"}
            }
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/models.APIError"},
                "metadata": {"$ref": "#/definitions/models.Metadata"},
                "status": {"type": "string"}
            }
        },
        "models.Bundle": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.Item"}},
                "owner_id": {"type": "string"},
                "price": {"$ref": "#/definitions/models.Money"},
                "similarity": {"type": "number"},
                "source": {"type": "string", "enum": ["favorites", "fallback"]}
            }
        },
        "models.Item": {
            "type": "object",
            "properties": {
                "category_id": {"type": "string"},
                "created_at": {"type": "string"},
                "embedding": {"type": "array", "items": {"type": "number"}},
                "id": {"type": "string"},
                "location": {"$ref": "#/definitions/models.Point"},
                "owner_id": {"type": "string"},
                "price": {"$ref": "#/definitions/models.Money"},
                "status": {"type": "string", "enum": ["available", "reserved", "swapped"]},
                "title": {"type": "string"}
            }
        },
        "models.Metadata": {
            "type": "object",
            "properties": {
                "query_time_ms": {"type": "integer"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.Money": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "currency": {"type": "string"}
            }
        },
        "models.Point": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "models.Recommendation": {
            "type": "object",
            "properties": {
                "bundle": {"$ref": "#/definitions/models.Bundle"},
                "favorite_category": {"type": "boolean"},
                "id": {"type": "string"},
                "item": {"$ref": "#/definitions/models.Item"},
                "kind": {"type": "string", "enum": ["item", "bundle"]},
                "score": {"type": "number"},
                "scores": {"$ref": "#/definitions/models.SubScores"}
            }
        },
        "models.SubScores": {
            "type": "object",
            "properties": {
                "category": {"type": "number"},
                "location": {"type": "number"},
                "price": {"type": "number"},
                "similarity": {"type": "number"}
            }
        },
        "models.Weights": {
            "type": "object",
            "properties": {
                "category": {"type": "number"},
                "location_lat": {"type": "number"},
                "location_lng": {"type": "number"},
                "price": {"type": "number"},
                "similarity": {"type": "number"}
            }
        },
        "validation.WeightsPatchRequest": {
            "type": "object",
            "properties": {
                "category": {"type": "number"},
                "location_lat": {"type": "number"},
                "location_lng": {"type": "number"},
                "price": {"type": "number"},
                "similarity": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Swapmatch API",
	Description:      "Ranked item and bundle recommendations for peer-to-peer swaps.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
