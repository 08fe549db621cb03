// Package docs registers the OpenAPI description served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/api/createtasklist": {
            "post": {
                "tags": ["TaskLists"],
                "summary": "Create a task list",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "taskList",
                        "required": false,
                        "schema": {"$ref": "#/definitions/CreateTaskListRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Created task list", "schema": {"$ref": "#/definitions/TaskList"}},
                    "400": {"description": "Invalid body", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/createtask": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Create a task",
                "description": "dueDate is DD-MM-YYYY and must not fall before the end of the period window.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "task",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateTaskRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Created task", "schema": {"$ref": "#/definitions/Task"}},
                    "400": {"description": "Invalid body or due date before period end", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/tasklist": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Search tasks",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "searchText", "type": "string", "description": "Case-insensitive substring of task name or description"},
                    {"in": "query", "name": "page", "type": "integer", "default": 1, "minimum": 1},
                    {"in": "query", "name": "limit", "type": "integer", "default": 10, "minimum": 1}
                ],
                "responses": {
                    "200": {"description": "One page of tasks", "schema": {"$ref": "#/definitions/TaskPage"}},
                    "400": {"description": "Invalid paging", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Storage failure or missing task list", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness",
                "responses": {"200": {"description": "Server is up"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness",
                "responses": {
                    "200": {"description": "Document store reachable"},
                    "503": {"description": "Document store unreachable"}
                }
            }
        }
    },
    "definitions": {
        "CreateTaskListRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Finance"},
                "description": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "TaskList": {
            "type": "object",
            "properties": {
                "_id": {"type": "string", "example": "65a1b2c3d4e5f60718293a4b"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "CreateTaskRequest": {
            "type": "object",
            "required": ["taskName", "dueDate", "period", "periodType", "taskListId"],
            "properties": {
                "taskName": {"type": "string", "example": "VAT return"},
                "description": {"type": "string"},
                "dueDate": {"type": "string", "example": "05-02-2024"},
                "period": {"type": "string", "example": "Jan 2024"},
                "periodType": {"type": "string", "enum": ["monthly", "quarterly", "yearly"]},
                "taskListId": {"type": "string", "example": "65a1b2c3d4e5f60718293a4b"}
            }
        },
        "Task": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "taskName": {"type": "string"},
                "description": {"type": "string"},
                "dueDate": {"type": "string", "format": "date-time"},
                "period": {"type": "string"},
                "periodType": {"type": "string", "enum": ["monthly", "quarterly", "yearly"]},
                "taskListId": {"type": "string"}
            }
        },
        "TaskListing": {
            "type": "object",
            "properties": {
                "taskName": {"type": "string"},
                "description": {"type": "string"},
                "periodType": {"type": "string"},
                "period": {"type": "string"},
                "dueDate": {"type": "string", "example": "05-02-2024"},
                "taskListName": {"type": "string"}
            }
        },
        "TaskPage": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/TaskListing"}}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Task Lists API",
	Description:      "Recurring task lists with period-validated due dates",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
