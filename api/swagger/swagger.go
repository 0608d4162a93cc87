package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Lesson Studio API",
        "description": "Lesson plan authoring, validation, review and assignment",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "LessonPlans", "description": "Draft, review and assign lesson plans"},
        {"name": "Content", "description": "Student-facing lessons and stories"},
        {"name": "Leveling", "description": "Proficiency frameworks"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Liveness check",
                "security": [],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check of storage and cache",
                "security": [],
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/api/v1/lesson-plans": {
            "get": {
                "tags": ["LessonPlans"],
                "summary": "List lesson plans",
                "description": "Teachers only see their own plans; admins may filter by teacher.",
                "parameters": [
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "description": "Comma separated statuses"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["LessonPlans"],
                "summary": "Create a draft lesson plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLessonPlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lesson-plans/{id}": {
            "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
            "get": {
                "tags": ["LessonPlans"],
                "summary": "Get a lesson plan",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["LessonPlans"],
                "summary": "Edit lesson plan content",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLessonPlanRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["LessonPlans"],
                "summary": "Delete a lesson plan",
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/api/v1/lesson-plans/{id}/validate": {
            "post": {
                "tags": ["LessonPlans"],
                "summary": "Run the validation pipeline and record the result",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/lesson-plans/{id}/validations": {
            "post": {
                "tags": ["LessonPlans"],
                "summary": "Record an externally computed validation result",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidationResult"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Inconsistent result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lesson-plans/{id}/transition": {
            "post": {
                "tags": ["LessonPlans"],
                "summary": "Move a lesson plan through the review workflow",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionLessonPlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lesson-plans/{id}/assign": {
            "post": {
                "tags": ["LessonPlans"],
                "summary": "Assign a finalized lesson plan to students",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignLessonPlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Plan is not finalized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Latest validation did not pass", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/lesson-plans/{id}/report": {
            "get": {
                "tags": ["LessonPlans"],
                "summary": "Download the latest validation report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Report file", "schema": {"type": "file"}}}
            }
        },
        "/api/v1/content/me": {
            "get": {
                "tags": ["Content"],
                "summary": "List content assigned to the current student",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/content/students/{studentId}": {
            "get": {
                "tags": ["Content"],
                "summary": "List content assigned to a student",
                "parameters": [{"name": "studentId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/content/authored": {
            "get": {
                "tags": ["Content"],
                "summary": "List content authored by the current teacher",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/content/stories": {
            "post": {
                "tags": ["Content"],
                "summary": "Publish a story",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStoryRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/leveling/frameworks/{framework}": {
            "get": {
                "tags": ["Leveling"],
                "summary": "Show the level table of a framework",
                "parameters": [{"name": "framework", "in": "path", "required": true, "type": "string", "enum": ["GEPT", "TOCFL", "GRADE"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/leveling/proficiency": {
            "get": {
                "tags": ["Leveling"],
                "summary": "Resolve a proficiency label",
                "parameters": [
                    {"name": "language", "in": "query", "required": true, "type": "string", "enum": ["en", "zh"]},
                    {"name": "category", "in": "query", "required": true, "type": "string", "enum": ["child", "adult"]},
                    {"name": "level", "in": "query", "required": true, "type": "integer", "minimum": 1, "maximum": 6},
                    {"name": "framework", "in": "query", "type": "string", "enum": ["GEPT", "TOCFL", "GRADE"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/admin/metrics": {
            "get": {
                "tags": ["Observability"],
                "summary": "Operational counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "VocabItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "word": {"type": "string"},
                "pinyin": {"type": "string"},
                "definition": {"type": "string"},
                "partOfSpeech": {"type": "string"},
                "exampleSentence": {"type": "string"},
                "level": {"type": "integer"}
            }
        },
        "CreateLessonPlanRequest": {
            "type": "object",
            "required": ["title", "targetLanguage", "targetLevel", "targetFramework"],
            "properties": {
                "teacherId": {"type": "string"},
                "title": {"type": "string"},
                "targetLanguage": {"type": "string", "enum": ["en", "zh"]},
                "targetLevel": {"type": "integer"},
                "targetFramework": {"type": "string", "enum": ["GEPT", "TOCFL", "GRADE"]},
                "sourceType": {"type": "string"},
                "sourceData": {"type": "string"}
            }
        },
        "UpdateLessonPlanRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "textContent": {"type": "string"},
                "vocabItems": {"type": "array", "items": {"$ref": "#/definitions/VocabItem"}},
                "videoContent": {"type": "object"},
                "removeVideo": {"type": "boolean"}
            }
        },
        "TransitionLessonPlanRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["draft", "ai-generating", "pending-review", "review-in-progress", "revision-needed", "finalized", "assigned"]}
            }
        },
        "AssignLessonPlanRequest": {
            "type": "object",
            "required": ["studentIds"],
            "properties": {
                "studentIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateStoryRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "studentId": {"type": "string"},
                "title": {"type": "string"},
                "payload": {
                    "type": "object",
                    "properties": {
                        "text": {"type": "string"},
                        "vocab": {"type": "array", "items": {"type": "string"}},
                        "language": {"type": "string"},
                        "level": {"type": "integer"}
                    }
                }
            }
        },
        "ValidationIssue": {
            "type": "object",
            "properties": {
                "check": {"type": "string"},
                "severity": {"type": "string", "enum": ["error", "warning", "info"]},
                "message": {"type": "string"},
                "field": {"type": "string"}
            }
        },
        "CheckResult": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "passed": {"type": "boolean"},
                "issues": {"type": "array", "items": {"$ref": "#/definitions/ValidationIssue"}}
            }
        },
        "ValidationResult": {
            "type": "object",
            "properties": {
                "passed": {"type": "boolean"},
                "timestamp": {"type": "string", "format": "date-time"},
                "checks": {"type": "array", "items": {"$ref": "#/definitions/CheckResult"}}
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
