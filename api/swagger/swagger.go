package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "FormaPlan API",
        "description": "Scheduling and attendance management for training organizations",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and the admin session lock"},
        {"name": "Trainers", "description": "Trainer roster management"},
        {"name": "Trainees", "description": "Trainee enrollment and suspensions"},
        {"name": "Locations", "description": "Location reference data"},
        {"name": "Templates", "description": "Standing weekly availability templates"},
        {"name": "Absences", "description": "Absence declaration and validation lifecycle"},
        {"name": "Schedule", "description": "Resolved week view, candidates and autofill"},
        {"name": "Attendance", "description": "Presence declarations and sheet exports"},
        {"name": "Dashboard", "description": "Coordinator day overview"},
        {"name": "Audit", "description": "Data-quality reporting"},
        {"name": "Messages", "description": "In-app inbox"},
        {"name": "Metrics", "description": "Runtime statistics"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "Token pair issued"},
                    "401": {"description": "Invalid credentials"},
                    "409": {"description": "Another admin session holds the lock"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "New token pair"},
                    "401": {"description": "Refresh token expired or revoked"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "responses": {"204": {"description": "Session revoked"}}
            }
        },
        "/auth/lock/heartbeat": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh the admin session lock",
                "responses": {
                    "204": {"description": "Lock extended"},
                    "409": {"description": "Lock lost to another session"}
                }
            }
        },
        "/auth/lock/steal": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Take over the admin session lock",
                "responses": {"204": {"description": "Lock taken"}}
            }
        },
        "/trainers": {
            "get": {
                "tags": ["Trainers"],
                "summary": "List trainers",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            },
            "post": {
                "tags": ["Trainers"],
                "summary": "Create trainer",
                "responses": {
                    "201": {"$ref": "#/responses/Envelope"},
                    "409": {"description": "Email already in use"}
                }
            }
        },
        "/trainers/{id}": {
            "get": {
                "tags": ["Trainers"],
                "summary": "Get trainer detail",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            },
            "put": {
                "tags": ["Trainers"],
                "summary": "Update trainer",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            },
            "delete": {
                "tags": ["Trainers"],
                "summary": "Archive trainer",
                "responses": {"204": {"description": "Archived"}}
            }
        },
        "/trainees": {
            "get": {
                "tags": ["Trainees"],
                "summary": "List trainees",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            },
            "post": {
                "tags": ["Trainees"],
                "summary": "Create trainee",
                "responses": {"201": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/trainees/{id}/suspensions": {
            "post": {
                "tags": ["Trainees"],
                "summary": "Suspend trainee over a date range",
                "responses": {"201": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/locations": {
            "get": {
                "tags": ["Locations"],
                "summary": "List locations",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            },
            "post": {
                "tags": ["Locations"],
                "summary": "Create location",
                "responses": {"201": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/templates": {
            "get": {
                "tags": ["Templates"],
                "summary": "List template entries",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            },
            "post": {
                "tags": ["Templates"],
                "summary": "Create template entry",
                "responses": {"201": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/templates/{id}/validate": {
            "post": {
                "tags": ["Templates"],
                "summary": "Validate template entry",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/templates/duplicates": {
            "get": {
                "tags": ["Templates"],
                "summary": "List duplicate template entries",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/absences": {
            "get": {
                "tags": ["Absences"],
                "summary": "List absences",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            },
            "post": {
                "tags": ["Absences"],
                "summary": "Declare absence",
                "responses": {"201": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/absences/{id}/validate": {
            "post": {
                "tags": ["Absences"],
                "summary": "Validate absence",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/absences/{id}/cancel": {
            "post": {
                "tags": ["Absences"],
                "summary": "Cancel absence",
                "responses": {
                    "200": {"$ref": "#/responses/Envelope"},
                    "412": {"description": "Absence already cancelled"}
                }
            }
        },
        "/schedule/week": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Resolved week schedule",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/schedule/candidates": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Candidate trainers for a slot",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/schedule/autofill": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Generate next week's draft schedule",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List presence declarations for a day",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Declare presence",
                "responses": {
                    "200": {"$ref": "#/responses/Envelope"},
                    "409": {"description": "Conflicts with a validated absence"}
                }
            }
        },
        "/attendance/sheet": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Download the attendance sheet",
                "produces": ["application/pdf", "text/csv"],
                "responses": {"200": {"description": "Sheet file"}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Day overview",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "Data-quality report",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/audit/orphans": {
            "delete": {
                "tags": ["Audit"],
                "summary": "Purge orphan absences",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/messages": {
            "get": {
                "tags": ["Messages"],
                "summary": "List inbox messages",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            },
            "post": {
                "tags": ["Messages"],
                "summary": "Send a message",
                "responses": {"201": {"$ref": "#/responses/Envelope"}}
            }
        },
        "/metrics/snapshot": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Runtime metrics snapshot",
                "responses": {"200": {"$ref": "#/responses/Envelope"}}
            }
        }
    },
    "responses": {
        "Envelope": {
            "description": "Standard response envelope",
            "schema": {"$ref": "#/definitions/ResponseEnvelope"}
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
