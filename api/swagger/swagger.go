package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Recovery API",
        "description": "Patient recovery outcomes: ODI assessments, check-ins, analytics and progress reports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login and token lifecycle"},
        {"name": "Patients", "description": "Assessments, check-ins and onboarding profile"},
        {"name": "Outcomes", "description": "Analytics snapshot, dashboard and benchmarks"},
        {"name": "Reports", "description": "Asynchronous progress reports"},
        {"name": "Accounts", "description": "Patient and staff login provisioning"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate refresh token",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid or expired refresh token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}],
                "responses": {"204": {"description": "Logged out"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "User info", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/patients/{id}/assessments": {
            "get": {
                "tags": ["Patients"],
                "summary": "List ODI assessments",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/PatientID"}],
                "responses": {"200": {"description": "Assessments ascending by date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Patients"],
                "summary": "Submit an ODI questionnaire",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/PatientID"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SubmitAssessmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Scored assessment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patients/{id}/checkins": {
            "get": {
                "tags": ["Patients"],
                "summary": "List daily check-ins",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/PatientID"},
                    {"in": "query", "name": "from", "type": "string", "format": "date"},
                    {"in": "query", "name": "to", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "Check-ins ascending by date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Patients"],
                "summary": "Record a daily check-in",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/PatientID"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpsertCheckInRequest"}}
                ],
                "responses": {
                    "200": {"description": "Stored check-in", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patients/{id}/profile": {
            "get": {
                "tags": ["Patients"],
                "summary": "Read the onboarding profile",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/PatientID"}],
                "responses": {
                    "200": {"description": "Profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not onboarded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Patients"],
                "summary": "Create or update the onboarding profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"$ref": "#/parameters/PatientID"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpsertProfileRequest"}}
                ],
                "responses": {"200": {"description": "Profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/patients/{id}/outcomes": {
            "get": {
                "tags": ["Outcomes"],
                "summary": "Compute the analytics snapshot",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/PatientID"}],
                "responses": {
                    "200": {"description": "Snapshot", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patients/{id}/outcomes/dashboard": {
            "get": {
                "tags": ["Outcomes"],
                "summary": "Outcomes dashboard",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/PatientID"}],
                "responses": {"200": {"description": "Snapshot, benchmark and insights", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/benchmarks": {
            "get": {
                "tags": ["Outcomes"],
                "summary": "Compare a score with population benchmarks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "score", "required": true, "type": "number"},
                    {"in": "query", "name": "treatmentType", "required": true, "type": "string", "enum": ["conservative", "physical_therapy", "injection", "post_surgery"]},
                    {"in": "query", "name": "weeks", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Comparison", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No benchmark checkpoint applies", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/benchmarks/cache": {
            "delete": {
                "tags": ["Outcomes"],
                "summary": "Drop cached benchmark rows (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Flushed"}}
            }
        },
        "/accounts": {
            "get": {
                "tags": ["Accounts"],
                "summary": "List accounts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "role", "type": "string", "enum": ["ADMIN", "PROVIDER", "PATIENT"]},
                    {"in": "query", "name": "active", "type": "boolean"},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "pageSize", "type": "integer"}
                ],
                "responses": {"200": {"description": "Accounts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Accounts"],
                "summary": "Provision an account",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateAccountRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/accounts/{id}": {
            "delete": {
                "tags": ["Accounts"],
                "summary": "Deactivate an account (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deactivated"}}
            }
        },
        "/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a progress report",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}],
                "responses": {
                    "202": {"description": "Job queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"in": "path", "name": "token", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Report file"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "parameters": {
        "PatientID": {"in": "path", "name": "id", "required": true, "type": "string"}
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "SubmitAssessmentRequest": {
            "type": "object",
            "required": ["responses"],
            "properties": {
                "responses": {"type": "array", "minItems": 10, "maxItems": 10, "items": {"type": "integer", "minimum": 0, "maximum": 5, "x-nullable": true}},
                "assessmentDate": {"type": "string", "format": "date"},
                "isBaseline": {"type": "boolean"}
            }
        },
        "UpsertCheckInRequest": {
            "type": "object",
            "required": ["painScore"],
            "properties": {
                "recordedDate": {"type": "string", "format": "date"},
                "painScore": {"type": "integer", "minimum": 0, "maximum": 10},
                "mood": {"type": "integer", "minimum": 1, "maximum": 5},
                "notes": {"type": "string", "maxLength": 1000}
            }
        },
        "UpsertProfileRequest": {
            "type": "object",
            "required": ["treatmentType", "treatmentDate"],
            "properties": {
                "treatmentType": {"type": "string", "enum": ["conservative", "physical_therapy", "injection", "post_surgery"]},
                "treatmentDate": {"type": "string", "format": "date"},
                "condition": {"type": "string"}
            }
        },
        "CreateAccountRequest": {
            "type": "object",
            "required": ["email", "fullName", "role", "password"],
            "properties": {
                "email": {"type": "string"},
                "fullName": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "PROVIDER", "PATIENT"]},
                "password": {"type": "string", "minLength": 8}
            }
        },
        "ReportRequest": {
            "type": "object",
            "required": ["patientId", "format"],
            "properties": {
                "patientId": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "from": {"type": "string", "format": "date-time"},
                "to": {"type": "string", "format": "date-time"}
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
