package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Results API",
        "description": "Result computation, ranking and reporting for multi-tenant schools",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Results", "description": "Score entry and submission"},
        {"name": "Rankings", "description": "Class and subject standings"},
        {"name": "Analytics", "description": "Performance trends and summaries"},
        {"name": "Reports", "description": "Report cards and broadsheets"},
        {"name": "Grading", "description": "Grading table administration"},
        {"name": "Operations", "description": "Service metrics"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and obtain an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/results/batch": {
            "post": {
                "tags": ["Results"],
                "summary": "Enter a batch of score entries for one class, subject and term",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "Batch processed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Term locked"},
                    "412": {"description": "No grading table configured"}
                }
            }
        },
        "/results/submit": {
            "post": {
                "tags": ["Results"],
                "summary": "Finalise one result sheet with positions and class average",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "Sheet submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Term locked"},
                    "404": {"description": "No results entered"}
                }
            }
        },
        "/results": {
            "get": {
                "tags": ["Results"],
                "summary": "List results",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "subjectId", "in": "query", "type": "string"},
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "termId", "in": "query", "type": "string"},
                    {"name": "submittedOnly", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rankings/class": {
            "get": {
                "tags": ["Rankings"],
                "summary": "Rank a class by average score for a term",
                "parameters": [
                    {"name": "classId", "in": "query", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "studentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rankings/subject": {
            "get": {
                "tags": ["Rankings"],
                "summary": "Rank one subject sheet within a class and term",
                "parameters": [
                    {"name": "classId", "in": "query", "required": true, "type": "string"},
                    {"name": "subjectId", "in": "query", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "studentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/students/{id}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Multi-term performance report for one student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "sessionId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session has no terms"}
                }
            }
        },
        "/analytics/students/{id}/summary": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Stored term summary for one student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Summary not found"}
                }
            }
        },
        "/reports/students/{id}/card": {
            "get": {
                "tags": ["Reports"],
                "summary": "Structured report card for one student and term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No submitted results"}
                }
            }
        },
        "/reports/students/{id}/card.pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Printable report card PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"},
                    "404": {"description": "No submitted results"}
                }
            }
        },
        "/reports/broadsheet.csv": {
            "get": {
                "tags": ["Reports"],
                "summary": "Class broadsheet CSV for a term",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "classId", "in": "query", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV document"},
                    "404": {"description": "No submitted results"}
                }
            }
        },
        "/grading-tables": {
            "get": {
                "tags": ["Grading"],
                "summary": "List the school's grading tables",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Grading"],
                "summary": "Create a grading table",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGradingTableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid band layout"}
                }
            }
        },
        "/metrics/snapshot": {
            "get": {
                "tags": ["Operations"],
                "summary": "Aggregated service metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "ScoreEntry": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "ca1_score": {"type": "number"},
                "ca2_score": {"type": "number"},
                "exam_score": {"type": "number"},
                "teacher_comment": {"type": "string"}
            },
            "required": ["student_id"]
        },
        "BatchRequest": {
            "type": "object",
            "properties": {
                "class_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "term_id": {"type": "string"},
                "entries": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ScoreEntry"}
                }
            },
            "required": ["class_id", "subject_id", "term_id", "entries"]
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "class_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "term_id": {"type": "string"}
            },
            "required": ["class_id", "subject_id", "term_id"]
        },
        "GradeBand": {
            "type": "object",
            "properties": {
                "grade": {"type": "string"},
                "min_score": {"type": "number"},
                "max_score": {"type": "number"},
                "grade_point": {"type": "number"},
                "description": {"type": "string"}
            },
            "required": ["grade"]
        },
        "CreateGradingTableRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "is_default": {"type": "boolean"},
                "bands": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/GradeBand"}
                }
            },
            "required": ["name", "bands"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"}
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
