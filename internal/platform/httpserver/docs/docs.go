// Package docs registers the OpenAPI document served under /swagger/.
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
        "/v1/jobs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["job-ledger"],
                "summary": "List jobs",
                "parameters": [
                    {"type": "string", "description": "Client address", "name": "client", "in": "query"},
                    {"type": "string", "description": "Freelancer address", "name": "freelancer", "in": "query"},
                    {"type": "string", "description": "Job status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ListJobsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["job-ledger"],
                "summary": "Post a job",
                "description": "Opens an escrow job owned by the sender. The job id is assigned by the ledger.",
                "parameters": [
                    {"type": "string", "description": "Caller address", "name": "X-Sender-Address", "in": "header", "required": true},
                    {"description": "Job", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.PostJobRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.PostJobResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/jobs/next-id": {
            "get": {
                "produces": ["application/json"],
                "tags": ["job-ledger"],
                "summary": "Next job id",
                "description": "Returns the id the next successful post will receive.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.NextJobIDResponse"}}
                }
            }
        },
        "/v1/jobs/{job_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["job-ledger"],
                "summary": "Get a job",
                "parameters": [
                    {"type": "integer", "description": "Job id", "name": "job_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.GetJobResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/jobs/{job_id}/delivery": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["job-ledger"],
                "summary": "Submit a delivery",
                "description": "Records the sender as freelancer and moves the job to SUBMITTED.",
                "parameters": [
                    {"type": "string", "description": "Caller address", "name": "X-Sender-Address", "in": "header", "required": true},
                    {"type": "integer", "description": "Job id", "name": "job_id", "in": "path", "required": true},
                    {"description": "Delivery", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.SubmitDeliveryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.SubmitDeliveryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/jobs/{job_id}/judge": {
            "post": {
                "produces": ["application/json"],
                "tags": ["judging-engine"],
                "summary": "Judge a submitted job",
                "description": "Scores the delivery against the brief and commits APPROVED, FAILED or REVISION.",
                "parameters": [
                    {"type": "integer", "description": "Job id", "name": "job_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.JudgeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/v1/jobs/{job_id}/budget": {
            "get": {
                "produces": ["application/json"],
                "tags": ["job-ledger"],
                "summary": "Job budget",
                "parameters": [
                    {"type": "integer", "description": "Job id", "name": "job_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.BudgetResponse"}}
                }
            }
        },
        "/v1/jobs/{job_id}/{field}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["job-ledger"],
                "summary": "Job text field",
                "description": "Reads one text field. Unknown jobs yield an empty value.",
                "parameters": [
                    {"type": "integer", "description": "Job id", "name": "job_id", "in": "path", "required": true},
                    {"type": "string", "description": "status, feedback, submission-url, submission-description, brief, deadline, client or freelancer", "name": "field", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.FieldResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "http.PostJobRequest": {
            "type": "object",
            "properties": {
                "brief": {"type": "string"},
                "budget": {"type": "integer"},
                "deadline": {"type": "string"}
            }
        },
        "http.PostJobResponse": {
            "type": "object",
            "properties": {
                "job_id": {"type": "integer"},
                "job": {"$ref": "#/definitions/http.JobDTO"}
            }
        },
        "http.SubmitDeliveryRequest": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "http.SubmitDeliveryResponse": {
            "type": "object",
            "properties": {
                "job": {"$ref": "#/definitions/http.JobDTO"}
            }
        },
        "http.GetJobResponse": {
            "type": "object",
            "properties": {
                "job": {"$ref": "#/definitions/http.JobDTO"}
            }
        },
        "http.ListJobsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/http.JobDTO"}}
            }
        },
        "http.NextJobIDResponse": {
            "type": "object",
            "properties": {
                "next_job_id": {"type": "integer"}
            }
        },
        "http.FieldResponse": {
            "type": "object",
            "properties": {
                "job_id": {"type": "integer"},
                "field": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "http.BudgetResponse": {
            "type": "object",
            "properties": {
                "job_id": {"type": "integer"},
                "budget": {"type": "integer"}
            }
        },
        "http.JudgeResponse": {
            "type": "object",
            "properties": {
                "job_id": {"type": "integer"},
                "verdict": {"type": "string"},
                "feedback": {"type": "string"},
                "mode": {"type": "string"}
            }
        },
        "http.JobDTO": {
            "type": "object",
            "properties": {
                "job_id": {"type": "integer"},
                "brief": {"type": "string"},
                "budget": {"type": "integer"},
                "deadline": {"type": "string"},
                "client_address": {"type": "string"},
                "freelancer_address": {"type": "string"},
                "submission_url": {"type": "string"},
                "submission_description": {"type": "string"},
                "status": {"type": "string"},
                "feedback": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Job Escrow API",
	Description:      "Escrow job ledger and delivery judging.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
