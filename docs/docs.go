// Package docs holds the OpenAPI description served at /swagger/index.html.
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a client or organizer account", "responses": {"201": {"description": "Created"}, "409": {"description": "Email already registered"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Exchange credentials for a token pair", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh an access token", "responses": {"200": {"description": "OK"}}}},
        "/venues": {
            "get": {"tags": ["venues"], "summary": "List venues", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["venues"], "summary": "Propose a venue", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/events": {"get": {"tags": ["events"], "summary": "List events", "responses": {"200": {"description": "OK"}}}},
        "/events/{id}/sections": {"get": {"tags": ["events"], "summary": "Section availability and prices", "responses": {"200": {"description": "OK"}}}},
        "/me/wallet": {"get": {"tags": ["clients"], "summary": "Balance and owned tickets", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/me/purchases": {
            "get": {"tags": ["clients"], "summary": "Purchase history", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["clients"], "summary": "Buy tickets and bundles", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Seat or stock unavailable"}}}
        },
        "/me/tickets/{id}/transfer": {"post": {"tags": ["clients"], "summary": "Transfer a ticket", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/refunds/tickets/{id}": {"post": {"tags": ["refunds"], "summary": "Request a ticket refund", "security": [{"BearerAuth": []}], "responses": {"202": {"description": "Accepted"}}}},
        "/marketplace/offers": {
            "get": {"tags": ["marketplace"], "summary": "Active resale offers", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["marketplace"], "summary": "Publish an offer", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/marketplace/offers/{id}/bids": {"post": {"tags": ["marketplace"], "summary": "Bid on an offer", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Offer closed or insufficient balance"}}}},
        "/marketplace/offers/{id}/bids/{bidId}/accept": {"post": {"tags": ["marketplace"], "summary": "Accept a bid and settle", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/organizer/events": {"post": {"tags": ["organizer"], "summary": "Create an event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/organizer/events/{id}/courtesies": {"post": {"tags": ["organizer"], "summary": "Grant a courtesy ticket", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/admin/fees": {"get": {"tags": ["admin"], "summary": "Current fee policy", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/refunds": {"get": {"tags": ["admin"], "summary": "Pending refund requests", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/admin/reports/earnings": {"get": {"tags": ["admin"], "summary": "Platform fee earnings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "BoletaMaster API",
	Description:      "Ticket sales, refunds and resale marketplace.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
