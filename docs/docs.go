// Package docs registers the OpenAPI description of the form API, served
// under /swagger. Keep it in step with the handler annotations.
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
    "paths": {
        "/form": {
            "get": {
                "description": "Current state of the caller's form session",
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Get form state",
                "responses": {
                    "200": {"description": "Form state", "schema": {"$ref": "#/definitions/handler.FormEnvelope"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Drop the form session",
                "responses": {
                    "200": {"description": "Session dropped", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/form/asset": {
            "post": {
                "description": "Replace the selected image. The previous result is kept.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Select an image",
                "parameters": [
                    {"type": "file", "description": "Image to extract from", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Form state", "schema": {"$ref": "#/definitions/handler.FormEnvelope"}},
                    "400": {"description": "Missing or unreadable image", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/form/model": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Select a model",
                "parameters": [
                    {"description": "Model", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateModelRequest"}}
                ],
                "responses": {
                    "200": {"description": "Form state", "schema": {"$ref": "#/definitions/handler.FormEnvelope"}},
                    "400": {"description": "Unknown model", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/form/parameters": {
            "patch": {
                "description": "Only the fields present in the body change. No range checks are applied.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Update generation parameters",
                "parameters": [
                    {"description": "Parameters", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateParametersRequest"}}
                ],
                "responses": {
                    "200": {"description": "Form state", "schema": {"$ref": "#/definitions/handler.FormEnvelope"}},
                    "400": {"description": "Invalid parameter", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/form/prompt": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Update prompts",
                "parameters": [
                    {"description": "Prompts", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdatePromptRequest"}}
                ],
                "responses": {
                    "200": {"description": "Form state", "schema": {"$ref": "#/definitions/handler.FormEnvelope"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/form/submit": {
            "post": {
                "description": "Sends one extraction request and waits for it. Service failures\nare reported in data.result, not as an HTTP error.",
                "produces": ["application/json"],
                "tags": ["form"],
                "summary": "Submit the form",
                "responses": {
                    "200": {"description": "Form state with the new result", "schema": {"$ref": "#/definitions/handler.FormEnvelope"}},
                    "400": {"description": "Missing image or user prompt", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ExtractionResult": {
            "type": "object",
            "properties": {
                "json": {"type": "string"},
                "kind": {"type": "string", "enum": ["none", "success", "error"]},
                "message": {"type": "string"}
            }
        },
        "domain.GenerationParameters": {
            "type": "object",
            "properties": {
                "max_tokens": {"type": "integer"},
                "temperature": {"type": "number"},
                "top_p": {"type": "number"}
            }
        },
        "domain.Prompt": {
            "type": "object",
            "properties": {
                "system_prompt": {"type": "string"},
                "user_prompt": {"type": "string"}
            }
        },
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.AssetView": {
            "type": "object",
            "properties": {
                "content_type": {"type": "string", "example": "image/png"},
                "file_name": {"type": "string", "example": "receipt.png"},
                "id": {"type": "string"},
                "preview_url": {"type": "string", "example": "/asset/6f1c..."},
                "size": {"type": "integer", "example": 48213},
                "uploaded_at": {"type": "string"}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handler.FormEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/handler.FormView"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.FormView": {
            "type": "object",
            "properties": {
                "asset": {"$ref": "#/definitions/handler.AssetView"},
                "can_submit": {"type": "boolean"},
                "in_flight": {"type": "integer"},
                "model": {"type": "string", "example": "haiku"},
                "model_label": {"type": "string", "example": "Claude 3 Haiku"},
                "parameters": {"$ref": "#/definitions/domain.GenerationParameters"},
                "prompt": {"$ref": "#/definitions/domain.Prompt"},
                "result": {"$ref": "#/definitions/domain.ExtractionResult"},
                "session_id": {"type": "string"},
                "status": {"type": "string", "example": "submittable"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.UpdateModelRequest": {
            "type": "object",
            "required": ["model"],
            "properties": {
                "model": {"type": "string", "enum": ["haiku", "sonnet"], "example": "haiku"}
            }
        },
        "handler.UpdateParametersRequest": {
            "type": "object",
            "properties": {
                "max_tokens": {"type": "integer", "example": 1000},
                "temperature": {"type": "number", "example": 0.5},
                "top_p": {"type": "number", "example": 0.7}
            }
        },
        "handler.UpdatePromptRequest": {
            "type": "object",
            "properties": {
                "system_prompt": {"type": "string", "example": "You are an invoice reader. Answer in JSON."},
                "user_prompt": {"type": "string", "example": "Extract the invoice number and total."}
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
	Title:            "Image Query API",
	Description:      "Form session API behind the image extraction page.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
