package docs

import "github.com/swaggo/swag"

// docTemplate is kept in the layout swag init emits, so go generate can
// replace this file.
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
    "paths": {
        "/api/pdf/analyze": {
            "post": {
                "description": "Upload a PDF and get structured JSON or a readable transcript",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["pdf"],
                "summary": "Analyze a medical PDF",
                "parameters": [
                    {"type": "file", "description": "PDF document", "name": "pdf", "in": "formData", "required": true},
                    {"type": "string", "description": "json (default) or transcript", "name": "mode", "in": "formData"},
                    {"type": "string", "description": "Upstream model id", "name": "model_name", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.AnalyzeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/pdf/summary": {
            "post": {
                "description": "Group findings, labs and medications by body region and compose a summary",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pdf"],
                "summary": "Summarize an extracted report",
                "parameters": [
                    {"description": "Extracted report", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/endpoints.SummaryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/summary.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/prompts": {
            "get": {
                "description": "Get the prompts sent to the upstream model, with their hashes",
                "produces": ["application/json"],
                "tags": ["prompts"],
                "summary": "List all prompts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.PromptsListResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/prompts/{key}": {
            "get": {
                "description": "Get a specific prompt by key",
                "produces": ["application/json"],
                "tags": ["prompts"],
                "summary": "Get a prompt",
                "parameters": [
                    {"type": "string", "description": "Prompt key (e.g., pdf.analyze.json)", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.PromptResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Report liveness and the default upstream model",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.HealthResponse"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "description": "Expose service metrics in the Prometheus text format",
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}}
                }
            }
        },
        "/models": {
            "get": {
                "description": "List upstream models that support content generation",
                "produces": ["application/json"],
                "tags": ["models"],
                "summary": "List models",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.ModelsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "endpoints.AnalyzeResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "object", "additionalProperties": true},
                "mode": {"type": "string"},
                "transcript": {"type": "string"}
            }
        },
        "endpoints.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "endpoints.HealthResponse": {
            "type": "object",
            "properties": {
                "model": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "endpoints.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"type": "string"}}
            }
        },
        "endpoints.PromptResponse": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "hash": {"type": "string"},
                "key": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "endpoints.PromptsListResponse": {
            "type": "object",
            "properties": {
                "prompts": {"type": "array", "items": {"$ref": "#/definitions/endpoints.PromptResponse"}}
            }
        },
        "endpoints.SummaryRequest": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/report.ExtractedReport"}
            }
        },
        "report.ExtractedReport": {
            "type": "object",
            "properties": {
                "examDate": {"type": "string"},
                "findings": {"type": "array", "items": {"$ref": "#/definitions/report.Finding"}},
                "labs": {"type": "array", "items": {"$ref": "#/definitions/report.LabResult"}},
                "meds": {"type": "array", "items": {"$ref": "#/definitions/report.Medication"}},
                "patientName": {"type": "string"}
            }
        },
        "report.Finding": {
            "type": "object",
            "properties": {
                "bodyPart": {"type": "string"},
                "impression": {"type": "string"},
                "laterality": {"type": "string"},
                "modality": {"type": "string"},
                "pages": {"type": "array", "items": {"type": "integer"}},
                "region": {"type": "string"},
                "severity": {"type": "string"},
                "summary": {"type": "string"}
            }
        },
        "report.LabResult": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "refRange": {"type": "string"},
                "relatedBodyPart": {"type": "string"},
                "sourcePage": {"type": "integer"},
                "unit": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "report.Medication": {
            "type": "object",
            "properties": {
                "dose": {"type": "string"},
                "freq": {"type": "string"},
                "name": {"type": "string"},
                "relatedBodyPart": {"type": "string"},
                "sourcePage": {"type": "integer"}
            }
        },
        "summary.RegionBucket": {
            "type": "object",
            "properties": {
                "findings": {"type": "array", "items": {"$ref": "#/definitions/report.Finding"}},
                "labs": {"type": "array", "items": {"$ref": "#/definitions/report.LabResult"}},
                "meds": {"type": "array", "items": {"$ref": "#/definitions/report.Medication"}}
            }
        },
        "summary.Result": {
            "type": "object",
            "properties": {
                "bodyIndex": {"type": "object", "additionalProperties": {"$ref": "#/definitions/summary.RegionBucket"}},
                "examDate": {"type": "string"},
                "patientName": {"type": "string"},
                "summary": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "MedTwin API",
	Description:      "Medical PDF analysis: structured extraction, transcripts and body-region summaries.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
