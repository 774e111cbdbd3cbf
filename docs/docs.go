// Package docs 提供 /apidocs 使用的 Swagger 2.0 文档
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
        "/user/register": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Register a user",
                "parameters": [
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "last_name", "in": "formData", "required": true},
                    {"type": "string", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "name": "password2", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "User created", "schema": {"$ref": "#/definitions/Resp"}},
                    "400": {"description": "Invalid form data, invalid email or email exists", "schema": {"$ref": "#/definitions/Resp"}},
                    "404": {"description": "User not created", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/user/list/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "Users found (body status 201) or table empty", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/user/login": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Log in and receive a bearer token",
                "parameters": [
                    {"type": "string", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "User logged in", "schema": {"$ref": "#/definitions/Resp"}},
                    "404": {"description": "Email or password is incorrect", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/user/settings": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Update profile, email or password",
                "parameters": [
                    {"type": "string", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "name": "old_password", "in": "formData", "required": true},
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "last_name", "in": "formData", "required": true},
                    {"type": "string", "name": "new_email", "in": "formData"},
                    {"type": "string", "name": "new_password", "in": "formData"},
                    {"type": "string", "name": "confirm_password", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "User edited", "schema": {"$ref": "#/definitions/Resp"}},
                    "400": {"description": "Invalid form data", "schema": {"$ref": "#/definitions/Resp"}},
                    "401": {"description": "Old password is incorrect", "schema": {"$ref": "#/definitions/Resp"}},
                    "402": {"description": "Invalid email", "schema": {"$ref": "#/definitions/Resp"}},
                    "403": {"description": "Email already exists", "schema": {"$ref": "#/definitions/Resp"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/user/id/{id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Get a user profile",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "User found", "schema": {"$ref": "#/definitions/Resp"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/user/delete/{id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Delete a user with its products and files",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "User deleted", "schema": {"$ref": "#/definitions/Resp"}},
                    "400": {"description": "User not deleted", "schema": {"$ref": "#/definitions/Resp"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/user/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["user"],
                "summary": "Profile of the token owner",
                "responses": {
                    "200": {"description": "User found", "schema": {"$ref": "#/definitions/Resp"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/product/id/{id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["product"],
                "summary": "Get a product",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Product found", "schema": {"$ref": "#/definitions/Resp"}},
                    "404": {"description": "Product not found", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/product/list/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["product"],
                "summary": "List all products",
                "responses": {"200": {"description": "Products found or table empty", "schema": {"$ref": "#/definitions/Resp"}}}
            }
        },
        "/product/list_user/{id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["product"],
                "summary": "List products of a user",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Products found or table empty", "schema": {"$ref": "#/definitions/Resp"}}}
            }
        },
        "/product/add/": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["product"],
                "summary": "Add a product with its archive",
                "parameters": [
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData", "required": true},
                    {"type": "string", "name": "id_user", "in": "formData", "required": true},
                    {"type": "file", "name": "file_data", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Product added successfully", "schema": {"$ref": "#/definitions/Resp"}},
                    "400": {"description": "Invalid form data or user id", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/product/edit/{id}/": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["product"],
                "summary": "Edit a product, optionally replacing its archive",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData", "required": true},
                    {"type": "string", "name": "id_user", "in": "formData", "required": true},
                    {"type": "file", "name": "file_data", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Product updated successfully", "schema": {"$ref": "#/definitions/Resp"}},
                    "400": {"description": "Invalid form data", "schema": {"$ref": "#/definitions/Resp"}},
                    "404": {"description": "Product not found", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        },
        "/product/delete/{id}/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["product"],
                "summary": "Delete a product and its archive",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Product deleted successfully", "schema": {"$ref": "#/definitions/Resp"}},
                    "404": {"description": "Product not found", "schema": {"$ref": "#/definitions/Resp"}}
                }
            }
        }
    },
    "definitions": {
        "Resp": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "data": {},
                "user": {"$ref": "#/definitions/Profile"},
                "token": {"type": "string"}
            }
        },
        "Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "Product": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "file_zip_path": {"type": "string"},
                "id_user": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Mini BoxDrop API",
	Description:      "Users and file-bearing products.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
