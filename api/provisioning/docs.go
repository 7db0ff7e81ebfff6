// Package provisioning registers the generated OpenAPI document for the
// provisioning service. Regenerate with:
//
//	swag init -g internal/provisioning/http/router.go -o api/provisioning
package provisioning

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "CrewDesk Team",
            "url": "https://github.com/crewdeskhq/crewdesk"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version"}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks"},
                    "503": {"description": "status, uptime, version, checks"}
                }
            }
        },
        "/v1/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign Up",
                "responses": {
                    "201": {"description": "session for the new account"},
                    "400": {"description": "invalid_request"},
                    "409": {"description": "quota_exceeded or email_taken"}
                }
            }
        },
        "/v1/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log In",
                "responses": {
                    "200": {"description": "session"},
                    "401": {"description": "invalid_credentials"},
                    "403": {"description": "account_disabled"}
                }
            }
        },
        "/v1/invitations": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Create Invitation",
                "responses": {
                    "201": {"description": "invitation with one-time token"},
                    "403": {"description": "permission_denied"},
                    "409": {"description": "quota_exceeded"}
                }
            }
        },
        "/v1/invitations/validate": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Validate Invitation Token",
                "parameters": [
                    {"type": "string", "name": "token", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "invitation details, token omitted"},
                    "404": {"description": "invalid_invitation"},
                    "410": {"description": "invitation_expired"}
                }
            }
        },
        "/v1/invitations/accept": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Accept Invitation",
                "responses": {
                    "201": {"description": "session for the new account"},
                    "404": {"description": "invalid_invitation"},
                    "409": {"description": "invitation_consumed or quota_exceeded"},
                    "410": {"description": "invitation_expired"}
                }
            }
        },
        "/v1/invitations/{id}/resend": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Invitations"],
                "summary": "Resend Invitation",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "invitation with rotated token"},
                    "404": {"description": "not_found"},
                    "409": {"description": "invitation_consumed"}
                }
            }
        },
        "/v1/invitations/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Invitations"],
                "summary": "Revoke Invitation",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "revoked"},
                    "404": {"description": "not_found"},
                    "409": {"description": "invitation_consumed"}
                }
            }
        },
        "/v1/admin-requests": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["AdminRequests"],
                "summary": "Submit Admin Request",
                "responses": {
                    "201": {"description": "pending request"},
                    "409": {"description": "duplicate_request"}
                }
            },
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["AdminRequests"],
                "summary": "List Admin Requests",
                "responses": {
                    "200": {"description": "requests"},
                    "403": {"description": "permission_denied"}
                }
            }
        },
        "/v1/admin-requests/{id}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["AdminRequests"],
                "summary": "Process Admin Request",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "processed request"},
                    "404": {"description": "not_found or no_such_account"},
                    "409": {"description": "already_processed or quota_exceeded"}
                }
            }
        },
        "/v1/users/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Deactivate User",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "deactivated"},
                    "403": {"description": "permission_denied"},
                    "404": {"description": "not_found"}
                }
            }
        },
        "/v1/businesses": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Businesses"],
                "summary": "Create Business",
                "responses": {
                    "201": {"description": "business"},
                    "403": {"description": "permission_denied"}
                }
            }
        },
        "/v1/businesses/{id}/member-quotas": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Businesses"],
                "summary": "Member Quotas",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "quota snapshot"},
                    "403": {"description": "permission_denied"},
                    "404": {"description": "not_found"}
                }
            }
        },
        "/v1/businesses/{id}/invitations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Businesses"],
                "summary": "List Business Invitations",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "invitations"},
                    "403": {"description": "permission_denied"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "CrewDesk Provisioning Service API",
	Description:      "Access provisioning for multi-tenant team workspaces: role/permission matrix, seat quotas, invitation lifecycle, admin self-requests and credential sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
