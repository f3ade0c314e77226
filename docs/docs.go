// Package docs регистрирует описание API для /swagger/.
// Пересобирается командой: swag init -g cmd/main.go
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
        "/": {"get": {"tags": ["feed"], "summary": "Лента новостей", "parameters": [
            {"type": "string", "name": "q", "in": "query"},
            {"type": "string", "name": "category", "in": "query"},
            {"type": "string", "name": "page", "in": "query"}
        ], "responses": {"200": {"description": "OK"}}}},
        "/article/{slug}/": {
            "get": {"tags": ["feed"], "summary": "Статья", "security": [{"ApiKeyAuth": []}],
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"tags": ["feed"], "summary": "Комментарий со страницы статьи", "security": [{"ApiKeyAuth": []}],
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true},
                    {"type": "string", "name": "content", "in": "formData"}],
                "responses": {"303": {"description": "See Other"}, "400": {"description": "Bad Request"}}}
        },
        "/article/{slug}/like/": {"post": {"tags": ["engagement"], "summary": "Лайк / снятие лайка", "security": [{"ApiKeyAuth": []}],
            "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "303": {"description": "See Other"}}}},
        "/article/{slug}/comment/": {"post": {"tags": ["engagement"], "summary": "Добавить комментарий", "security": [{"ApiKeyAuth": []}],
            "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true},
                {"type": "string", "name": "content", "in": "formData", "required": true}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/comments/delete/{id}/": {"post": {"tags": ["engagement"], "summary": "Удалить комментарий (XHR)", "security": [{"ApiKeyAuth": []}],
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/login/": {"post": {"tags": ["auth"], "summary": "Вход", "parameters": [
            {"type": "string", "name": "username", "in": "formData", "required": true},
            {"type": "string", "name": "password", "in": "formData", "required": true}
        ], "responses": {"303": {"description": "See Other"}, "400": {"description": "Bad Request"}, "429": {"description": "Too Many Requests"}}}},
        "/register/": {"post": {"tags": ["auth"], "summary": "Регистрация", "responses": {"303": {"description": "See Other"}, "400": {"description": "Bad Request"}}}},
        "/logout/": {"post": {"tags": ["auth"], "summary": "Выход", "responses": {"303": {"description": "See Other"}}}},
        "/dashboard/": {"get": {"tags": ["dashboard"], "summary": "Статистика", "security": [{"ApiKeyAuth": []}],
            "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/articles/": {"get": {"tags": ["articles"], "summary": "Статьи (админка)", "security": [{"ApiKeyAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/categories/": {"get": {"tags": ["categories"], "summary": "Категории", "security": [{"ApiKeyAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/users/": {"get": {"tags": ["users"], "summary": "Пользователи", "security": [{"ApiKeyAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/about/": {"get": {"tags": ["site"], "summary": "О портале", "responses": {"200": {"description": "OK"}}}},
        "/contact/": {"post": {"tags": ["site"], "summary": "Обратная связь", "responses": {"303": {"description": "See Other"}, "400": {"description": "Bad Request"}}}},
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Campus News API",
	Description:      "Новостной портал колледжа: лента, статьи, комментарии, лайки, администрирование.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
