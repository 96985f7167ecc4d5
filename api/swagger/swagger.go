package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Lesson Booking API",
        "description": "Conflict-checked lesson booking and weekly timetables",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Lessons", "description": "Booking, rescheduling and removing lessons"},
        {"name": "Periods", "description": "Period catalog"},
        {"name": "Operations", "description": "Probes and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "All dependencies reachable"},
                    "503": {"description": "A dependency failed its ping"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "Metrics exposition"}}
            }
        },
        "/api/v1/lessons": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Weekly timetable",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "startTime", "in": "query", "type": "string", "description": "Any instant in the wanted week (RFC3339 or YYYY-MM-DD)"},
                    {"name": "teacherId", "in": "query", "type": "string", "description": "Filter by teacher (alias userId)"},
                    {"name": "subjectId", "in": "query", "type": "string"},
                    {"name": "campusId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Timetable rows", "schema": {"$ref": "#/definitions/TimetableEnvelope"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Lessons"],
                "summary": "Book a lesson",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Booked", "schema": {"$ref": "#/definitions/MutationEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Requires ADMIN or SUPERADMIN", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Subject or teacher already booked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Lessons"],
                "summary": "Remove lessons",
                "description": "Deletes every listed lesson or none of them.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "ids", "in": "query", "required": true, "type": "string", "description": "Comma separated lesson ids"}
                ],
                "responses": {
                    "200": {"description": "Removed", "schema": {"$ref": "#/definitions/MutationEnvelope"}},
                    "400": {"description": "Blank id list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Some ids did not exist; nothing was deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lessons/{id}": {
            "put": {
                "tags": ["Lessons"],
                "summary": "Reschedule a lesson",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rescheduled", "schema": {"$ref": "#/definitions/MutationEnvelope"}},
                    "404": {"description": "Lesson not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Subject or teacher already booked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lessons/export": {
            "get": {
                "tags": ["Lessons"],
                "summary": "Export the weekly timetable",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "startTime", "in": "query", "type": "string"},
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "subjectId", "in": "query", "type": "string"},
                    {"name": "campusId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rendered timetable", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/periods": {
            "get": {
                "tags": ["Periods"],
                "summary": "List periods",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Catalog in sort order", "schema": {"$ref": "#/definitions/PeriodEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LessonRequest": {
            "type": "object",
            "required": ["subject_id", "teacher_id", "start_time", "end_time"],
            "properties": {
                "subject_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "campus_id": {"type": "string"},
                "start_time": {"type": "string", "format": "date-time"},
                "end_time": {"type": "string", "format": "date-time"}
            }
        },
        "Lesson": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "subject_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "campus_id": {"type": "string"},
                "start_time": {"type": "string", "format": "date-time"},
                "end_time": {"type": "string", "format": "date-time"},
                "week": {"type": "string", "example": "2024-W05"},
                "subject_name": {"type": "string"},
                "teacher_name": {"type": "string"}
            }
        },
        "Period": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string", "example": "08:00-09:30"},
                "sort_order": {"type": "integer"}
            }
        },
        "PeriodRow": {
            "type": "object",
            "properties": {
                "period": {"type": "string", "example": "08:00-09:30"},
                "days": {
                    "type": "array",
                    "description": "Seven slots, Monday first",
                    "items": {"type": "array", "items": {"$ref": "#/definitions/Lesson"}}
                }
            }
        },
        "TimetableRow": {
            "type": "object",
            "properties": {
                "week": {"type": "string", "example": "2024-W05"},
                "monday": {"type": "string", "example": "2024-01-29"},
                "periods": {"type": "array", "items": {"$ref": "#/definitions/PeriodRow"}}
            }
        },
        "LessonConflict": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["SUBJECT", "TEACHER"]},
                "message": {"type": "string"},
                "subject_name": {"type": "string"},
                "teacher_name": {"type": "string"},
                "conflict": {"$ref": "#/definitions/Lesson"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {
                    "type": "object",
                    "properties": {"conflict": {"$ref": "#/definitions/LessonConflict"}}
                }
            }
        },
        "MutationEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object", "properties": {"success": {"type": "boolean"}}}
            }
        },
        "TimetableEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/TimetableRow"}},
                "meta": {"type": "object", "properties": {"weeks": {"type": "integer"}}}
            }
        },
        "PeriodEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Period"}}
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
