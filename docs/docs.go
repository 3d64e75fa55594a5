// Package docs registers the LendFlow OpenAPI document with swag so the
// swagger UI can serve it.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Database health check", "responses": {"200": {"description": "healthy"}, "503": {"description": "unhealthy"}}}},
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness check", "responses": {"200": {"description": "alive"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register an account", "responses": {"201": {"description": "session"}, "409": {"description": "username or email taken"}, "422": {"description": "validation error"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "session"}, "401": {"description": "invalid credentials"}, "429": {"description": "rate limited"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh the session token", "responses": {"200": {"description": "session"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "user"}}}},
        "/users": {"get": {"tags": ["users"], "summary": "List users (admin)", "responses": {"200": {"description": "page of users"}}}},
        "/users/{id}": {
            "get": {"tags": ["users"], "summary": "Get a user", "responses": {"200": {"description": "user"}, "404": {"description": "not found"}}},
            "patch": {"tags": ["users"], "summary": "Update a profile", "responses": {"200": {"description": "user"}}},
            "delete": {"tags": ["users"], "summary": "Deactivate a user (admin)", "responses": {"204": {"description": "deleted"}}}
        },
        "/lenders": {
            "get": {"tags": ["lenders"], "summary": "List lenders", "responses": {"200": {"description": "page of lenders"}}},
            "post": {"tags": ["lenders"], "summary": "Create a lender profile", "responses": {"201": {"description": "lender"}}}
        },
        "/lenders/me": {"get": {"tags": ["lenders"], "summary": "Caller's lender profile", "responses": {"200": {"description": "lender"}}}},
        "/lenders/{id}": {
            "get": {"tags": ["lenders"], "summary": "Get a lender", "responses": {"200": {"description": "lender"}}},
            "patch": {"tags": ["lenders"], "summary": "Update a lender", "responses": {"200": {"description": "lender"}}}
        },
        "/lenderRules": {
            "get": {"tags": ["rules"], "summary": "List lending rules", "responses": {"200": {"description": "page of rules"}}},
            "post": {"tags": ["rules"], "summary": "Create a lending rule", "responses": {"201": {"description": "rule"}}}
        },
        "/lenderRules/{id}": {
            "get": {"tags": ["rules"], "summary": "Get a rule", "responses": {"200": {"description": "rule"}}},
            "patch": {"tags": ["rules"], "summary": "Update a rule", "responses": {"200": {"description": "rule"}}},
            "delete": {"tags": ["rules"], "summary": "Delete a rule", "responses": {"204": {"description": "deleted"}}}
        },
        "/loanApplications": {
            "get": {"tags": ["applications"], "summary": "List applications visible to the caller", "responses": {"200": {"description": "page of applications"}}},
            "post": {"tags": ["applications"], "summary": "Submit an application", "responses": {"201": {"description": "application"}}}
        },
        "/loanApplications/bulk-process": {"post": {"tags": ["applications"], "summary": "Auto-decide pending applications", "responses": {"200": {"description": "bulk result"}}}},
        "/loanApplications/{id}": {"get": {"tags": ["applications"], "summary": "Get an application", "responses": {"200": {"description": "application"}}}},
        "/loanApplications/{id}/status": {"patch": {"tags": ["applications"], "summary": "Change application status", "responses": {"200": {"description": "application"}, "409": {"description": "invalid transition"}}}},
        "/loanApplications/{id}/cancel": {"post": {"tags": ["applications"], "summary": "Cancel an application", "responses": {"200": {"description": "application"}}}},
        "/loanApplications/{id}/assessment": {"get": {"tags": ["applications"], "summary": "Risk assessment", "responses": {"200": {"description": "assessment"}}}},
        "/eligibility/applications/{id}": {"get": {"tags": ["eligibility"], "summary": "Eligibility of an application", "responses": {"200": {"description": "eligibility"}}}},
        "/eligibility/check": {"post": {"tags": ["eligibility"], "summary": "Check eligibility against a lender", "responses": {"200": {"description": "eligibility"}}}},
        "/eligibility/score": {"get": {"tags": ["eligibility"], "summary": "Score a borrower profile", "responses": {"200": {"description": "score"}}}},
        "/matching": {"get": {"tags": ["eligibility"], "summary": "Match lenders", "responses": {"200": {"description": "matches"}}}},
        "/calculator/defaults": {"get": {"tags": ["calculator"], "summary": "Calculator defaults", "responses": {"200": {"description": "defaults"}}}},
        "/calculator/emi": {"post": {"tags": ["calculator"], "summary": "Compute EMI and schedule", "responses": {"200": {"description": "calculation"}}}},
        "/notifications": {
            "get": {"tags": ["notifications"], "summary": "List notifications", "responses": {"200": {"description": "page of notifications"}}},
            "post": {"tags": ["notifications"], "summary": "Send a notification (admin)", "responses": {"201": {"description": "notification"}}}
        },
        "/notifications/{id}/read": {"patch": {"tags": ["notifications"], "summary": "Mark a notification read", "responses": {"204": {"description": "marked"}}}},
        "/toasts": {
            "get": {"tags": ["notifications"], "summary": "List toasts", "responses": {"200": {"description": "toasts"}}},
            "delete": {"tags": ["notifications"], "summary": "Clear toasts", "responses": {"204": {"description": "cleared"}}}
        },
        "/toasts/{id}": {"delete": {"tags": ["notifications"], "summary": "Dismiss a toast", "responses": {"204": {"description": "dismissed"}}}},
        "/documents": {
            "get": {"tags": ["documents"], "summary": "List documents", "responses": {"200": {"description": "page of documents"}}},
            "post": {"tags": ["documents"], "summary": "Upload a document (multipart)", "consumes": ["multipart/form-data"], "responses": {"201": {"description": "document"}}}
        },
        "/documents/checklist": {"get": {"tags": ["documents"], "summary": "Document checklist", "responses": {"200": {"description": "checklist"}}}},
        "/documents/{id}": {
            "get": {"tags": ["documents"], "summary": "Get document metadata", "responses": {"200": {"description": "document"}}},
            "delete": {"tags": ["documents"], "summary": "Delete a document", "responses": {"204": {"description": "deleted"}}}
        },
        "/documents/{id}/download": {"get": {"tags": ["documents"], "summary": "Presigned download link", "responses": {"200": {"description": "link"}, "302": {"description": "redirect"}}}},
        "/documents/{id}/status": {"patch": {"tags": ["documents"], "summary": "Verify or reject a document", "responses": {"200": {"description": "document"}}}},
        "/analytics/platform": {"get": {"tags": ["analytics"], "summary": "Platform analytics (admin)", "responses": {"200": {"description": "analytics"}}}},
        "/analytics/lender": {"get": {"tags": ["analytics"], "summary": "Lender analytics", "responses": {"200": {"description": "analytics"}}}},
        "/reports/lender.csv": {"get": {"tags": ["reports"], "summary": "Lender CSV report", "produces": ["text/csv"], "responses": {"200": {"description": "csv"}}}},
        "/reports/lender.txt": {"get": {"tags": ["reports"], "summary": "Lender text report", "produces": ["text/plain"], "responses": {"200": {"description": "text"}}}},
        "/reports/platform.csv": {"get": {"tags": ["reports"], "summary": "Platform CSV report (admin)", "produces": ["text/csv"], "responses": {"200": {"description": "csv"}}}},
        "/settings": {
            "get": {"tags": ["settings"], "summary": "Platform settings", "responses": {"200": {"description": "settings"}}},
            "put": {"tags": ["settings"], "summary": "Update settings (admin)", "responses": {"200": {"description": "settings"}}}
        },
        "/settings/reset": {"post": {"tags": ["settings"], "summary": "Reset settings (admin)", "responses": {"200": {"description": "settings"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "LendFlow API",
	Description:      "Peer-to-peer loan marketplace.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
