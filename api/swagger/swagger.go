package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Conduct API",
        "description": "Administrative backend for student conduct tracking",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Login and token verification"},
        {"name": "Students", "description": "Student roster, import and reports"},
        {"name": "Behaviors", "description": "Student behavior records"},
        {"name": "BehaviorTypes", "description": "Behavior type catalogue"},
        {"name": "ScoreItems", "description": "Teacher scoring item catalogue"},
        {"name": "TeacherBehaviors", "description": "Teacher scoring and class ledger"},
        {"name": "Statistics", "description": "Dashboard and analysis"},
        {"name": "Users", "description": "Account management (admin)"},
        {"name": "Logs", "description": "Operation audit trail (admin)"},
        {"name": "Upload", "description": "Evidence image upload"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/verify-token": {
            "get": {
                "tags": ["Auth"],
                "summary": "Verify token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/VerifyTokenResponse"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "grade", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Student"}}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Student"}},
                    "409": {"description": "Duplicate student number", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student with behavior history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Student"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student and behavior records",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/students/batch-delete": {
            "post": {
                "tags": ["Students"],
                "summary": "Delete multiple students",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchDeleteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BatchDeleteResult"}}
                }
            }
        },
        "/students/template": {
            "get": {
                "tags": ["Students"],
                "summary": "Download roster import template",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {
                    "200": {"description": "xlsx template"}
                }
            }
        },
        "/students/import": {
            "post": {
                "tags": ["Students"],
                "summary": "Import students from Excel",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ImportResult"}},
                    "400": {"description": "Rejected roster", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/students/{id}/report": {
            "get": {
                "tags": ["Students"],
                "summary": "Download conduct report PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF report"}
                }
            }
        },
        "/behaviors": {
            "get": {
                "tags": ["Behaviors"],
                "summary": "List behavior records",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer"},
                    {"name": "behavior_type", "in": "query", "type": "string"},
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Behavior"}}}
                }
            },
            "post": {
                "tags": ["Behaviors"],
                "summary": "Record a behavior",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BehaviorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Behavior"}}
                }
            }
        },
        "/behaviors/stats": {
            "get": {
                "tags": ["Behaviors"],
                "summary": "Count behavior records",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["violation", "excellent"]},
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BehaviorCount"}},
                    "400": {"description": "Unknown type alias", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/behaviors/{id}": {
            "get": {
                "tags": ["Behaviors"],
                "summary": "Get behavior record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Behavior"}}
                }
            },
            "put": {
                "tags": ["Behaviors"],
                "summary": "Update behavior record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BehaviorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Behavior"}}
                }
            },
            "delete": {
                "tags": ["Behaviors"],
                "summary": "Delete behavior record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/behavior-types": {
            "get": {
                "tags": ["BehaviorTypes"],
                "summary": "List behavior types",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/BehaviorType"}}}
                }
            },
            "post": {
                "tags": ["BehaviorTypes"],
                "summary": "Create behavior type",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BehaviorTypeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/BehaviorType"}}
                }
            }
        },
        "/behavior-types/{id}": {
            "put": {
                "tags": ["BehaviorTypes"],
                "summary": "Update behavior type",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BehaviorTypeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BehaviorType"}}
                }
            },
            "delete": {
                "tags": ["BehaviorTypes"],
                "summary": "Delete unused behavior type",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "409": {"description": "Type in use", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/score-items": {
            "get": {
                "tags": ["ScoreItems"],
                "summary": "List score items",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ScoreItem"}}}
                }
            },
            "post": {
                "tags": ["ScoreItems"],
                "summary": "Create score item",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ScoreItem"}}
                }
            }
        },
        "/score-items/{id}": {
            "get": {
                "tags": ["ScoreItems"],
                "summary": "Get score item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScoreItem"}}
                }
            },
            "put": {
                "tags": ["ScoreItems"],
                "summary": "Update score item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScoreItem"}}
                }
            },
            "delete": {
                "tags": ["ScoreItems"],
                "summary": "Delete unused score item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "409": {"description": "Item in use", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/teacher-behaviors": {
            "get": {
                "tags": ["TeacherBehaviors"],
                "summary": "List teacher scoring records",
                "parameters": [
                    {"name": "teacher_name", "in": "query", "type": "string"},
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/TeacherBehavior"}}}
                }
            },
            "post": {
                "tags": ["TeacherBehaviors"],
                "summary": "Record teacher score",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherBehaviorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/TeacherBehavior"}},
                    "400": {"description": "Unparseable class prefix", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/teacher-behaviors/{id}": {
            "get": {
                "tags": ["TeacherBehaviors"],
                "summary": "Get teacher scoring record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TeacherBehavior"}}
                }
            },
            "put": {
                "tags": ["TeacherBehaviors"],
                "summary": "Update teacher scoring record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherBehaviorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TeacherBehavior"}}
                }
            },
            "delete": {
                "tags": ["TeacherBehaviors"],
                "summary": "Delete record and reverse ledger",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/teacher-behaviors/class-scores": {
            "get": {
                "tags": ["TeacherBehaviors"],
                "summary": "List accumulated class scores",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/ClassScore"}}}
                }
            }
        },
        "/statistics": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Dashboard overview",
                "parameters": [
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"},
                    {"name": "grade", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/statistics/analysis": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Violation analysis",
                "parameters": [
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"},
                    {"name": "grade", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/statistics/type-distribution": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Behavior type distribution",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/statistics/risk-warning": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Repeat-violation risk warning",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/statistics/class-info": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Grade and class combinations",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/statistics/behavior-types": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Counts per behavior type",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/statistics/class": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Counts per class",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/statistics/student/{id}": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Per-type counts for one student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "No records for student", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/statistics/summary": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Headline totals",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List accounts",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate username", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/{id}/password": {
            "put": {
                "tags": ["Users"],
                "summary": "Reset password",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users/change-password": {
            "post": {
                "tags": ["Users"],
                "summary": "Change own password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Wrong old password", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/{id}/status": {
            "patch": {
                "tags": ["Users"],
                "summary": "Enable or disable account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users/{id}": {
            "delete": {
                "tags": ["Users"],
                "summary": "Delete account",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted"}
                }
            }
        },
        "/logs": {
            "get": {
                "tags": ["Logs"],
                "summary": "List operation logs",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "startDate", "in": "query", "type": "string"},
                    {"name": "endDate", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/logs/batch": {
            "delete": {
                "tags": ["Logs"],
                "summary": "Delete multiple logs",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchDeleteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/upload": {
            "post": {
                "tags": ["Upload"],
                "summary": "Upload evidence image",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "type", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UploadResult"}},
                    "400": {"description": "Unsupported file", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "username": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "VerifyTokenResponse": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "username": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "student_id": {"type": "string"},
                "grade": {"type": "string"},
                "class": {"type": "string"},
                "contact": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "StudentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "student_id": {"type": "string"},
                "grade": {"type": "string"},
                "class": {"type": "string"},
                "contact": {"type": "string"},
                "status": {"type": "string"}
            },
            "required": ["name", "student_id", "grade"]
        },
        "BatchDeleteRequest": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "BatchDeleteResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "deletedCount": {"type": "integer"},
                "details": {
                    "type": "object",
                    "properties": {
                        "total": {"type": "integer"},
                        "success": {"type": "integer"},
                        "studentNames": {"type": "array", "items": {"type": "string"}}
                    }
                }
            }
        },
        "ImportResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "total": {"type": "integer"},
                "success": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Behavior": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "student_id": {"type": "integer"},
                "behavior_type": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "image_url": {"type": "string"},
                "process_result": {"type": "string"},
                "student_name": {"type": "string"},
                "grade": {"type": "string"},
                "class": {"type": "string"}
            }
        },
        "BehaviorRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "integer"},
                "behavior_type": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "image_url": {"type": "string"},
                "process_result": {"type": "string"}
            },
            "required": ["student_id", "behavior_type"]
        },
        "BehaviorType": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "score": {"type": "integer"}
            }
        },
        "BehaviorTypeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "score": {"type": "integer"}
            },
            "required": ["name", "category"]
        },
        "ScoreItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "score": {"type": "number"},
                "description": {"type": "string"}
            }
        },
        "ScoreItemRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string"},
                "score": {"type": "number"},
                "description": {"type": "string"}
            },
            "required": ["name", "category", "score"]
        },
        "TeacherBehavior": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "teacher_name": {"type": "string"},
                "behavior_type": {"type": "string"},
                "description": {"type": "string"},
                "score": {"type": "number"},
                "score_item_id": {"type": "integer"},
                "date": {"type": "string"}
            }
        },
        "TeacherBehaviorRequest": {
            "type": "object",
            "properties": {
                "teacher_name": {"type": "string"},
                "behavior_type": {"type": "string"},
                "description": {"type": "string"},
                "score": {"type": "number"},
                "score_item_id": {"type": "integer"},
                "date": {"type": "string"}
            },
            "required": ["teacher_name", "behavior_type", "description"]
        },
        "ClassScore": {
            "type": "object",
            "properties": {
                "grade": {"type": "string"},
                "class": {"type": "string"},
                "total_score": {"type": "number"}
            }
        },
        "BehaviorCount": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"}
            }
        },
        "UploadResult": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "originalName": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string"}
            },
            "required": ["old_password", "new_password"]
        },
        "CreateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "detail": {"type": "string"}
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
