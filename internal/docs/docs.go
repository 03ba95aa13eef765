// Package docs registers the OpenAPI specification served at
// /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Username or email taken"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in and receive a bearer token",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/stories": {
            "get": {
                "tags": ["stories"],
                "summary": "List stories with search, category filter and sorting",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["stories"],
                "summary": "Create a story; returns any newly earned badges",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}
            }
        },
        "/stories/{id}": {
            "get": {
                "tags": ["stories"],
                "summary": "Fetch a story",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["stories"],
                "summary": "Edit a story; caption and description lock 24h after posting",
                "responses": {"200": {"description": "OK"}, "422": {"description": "Edit window closed"}}
            },
            "delete": {
                "tags": ["stories"],
                "summary": "Soft-delete a story (restorable for 7 days)",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/stories/{id}/restore": {
            "post": {
                "tags": ["stories"],
                "summary": "Restore a soft-deleted story inside the restore window",
                "responses": {"200": {"description": "OK"}, "422": {"description": "Restore window closed"}}
            }
        },
        "/stories/{id}/like": {
            "post": {
                "tags": ["engagement"],
                "summary": "Like a story; the author may earn badges",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["engagement"],
                "summary": "Remove a like; earned badges are never revoked",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stories/{id}/share": {
            "post": {
                "tags": ["engagement"],
                "summary": "Record a share; the author may earn badges",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stories/{id}/comments": {
            "get": {
                "tags": ["comments"],
                "summary": "List a story's comments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["comments"],
                "summary": "Comment on a story; the commenter may earn badges",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/badges": {
            "get": {
                "tags": ["gamification"],
                "summary": "Browse the badge catalog",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me/badges": {
            "get": {
                "tags": ["gamification"],
                "summary": "List earned badges, sortable by newest, rarity or alphabetical",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me/achievements": {
            "get": {
                "tags": ["gamification"],
                "summary": "List earned achievements",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me/stats": {
            "get": {
                "tags": ["gamification"],
                "summary": "Current aggregate counters used by achievement rules",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/events": {
            "get": {
                "tags": ["events"],
                "summary": "List events with filters and sorting",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/events/{id}/register": {
            "post": {
                "tags": ["events"],
                "summary": "Register for an event; enforces capacity and closure",
                "responses": {"201": {"description": "Registered"}, "409": {"description": "Already registered"}, "422": {"description": "Closed, past or full"}}
            },
            "delete": {
                "tags": ["events"],
                "summary": "Cancel a registration",
                "responses": {"204": {"description": "Cancelled"}}
            }
        },
        "/me/calendar": {
            "get": {
                "tags": ["events"],
                "summary": "Registered events, soonest first",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/events/dashboard": {
            "get": {
                "tags": ["admin"],
                "summary": "Event totals for the admin overview",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/events/{id}/registrations.csv": {
            "get": {
                "tags": ["admin"],
                "summary": "Download an event's attendee list as CSV",
                "produces": ["text/csv"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "BridgeGen API",
	Description:      "Stories, gamification and events platform API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
