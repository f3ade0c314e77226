package models

import "io"

// Схемы входных данных. Имена полей в ошибках берутся из тега form.

type ArticleForm struct {
	Title      string        `json:"title"    form:"title"    validate:"required,max=200"`
	Content    string        `json:"content"  form:"content"  validate:"required"`
	Excerpt    string        `json:"excerpt"  form:"excerpt"  validate:"max=500"`
	CategoryID int64         `json:"category" form:"category" validate:"required,gt=0"`
	Status     ArticleStatus `json:"status"   form:"status"   validate:"required,articlestatus"`
}

type CategoryForm struct {
	Name        string `json:"name"        form:"name"        validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"max=1000"`
}

type CommentForm struct {
	Content string `json:"content" form:"content" validate:"required,max=5000"`
}

type RegisterForm struct {
	Username  string `json:"username"   form:"username"   validate:"required,min=3,max=150,username"`
	Email     string `json:"email"      form:"email"      validate:"required,email,max=254"`
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name"  form:"last_name"  validate:"required,max=150"`
	Password1 string `json:"password1"  form:"password1"  validate:"required,min=8,max=128"`
	Password2 string `json:"password2"  form:"password2"  validate:"required,eqfield=Password1"`
}

type LoginForm struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type ProfileForm struct {
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name"  form:"last_name"  validate:"max=150"`
	Email     string `json:"email"      form:"email"      validate:"omitempty,email,max=254"`
}

type ContactForm struct {
	Name    string `json:"name"    form:"name"    validate:"required,max=100"`
	Email   string `json:"email"   form:"email"   validate:"required,email,max=254"`
	Subject string `json:"subject" form:"subject" validate:"required,max=200"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
}

// Upload — загруженный файл обложки статьи.
type Upload struct {
	Filename string
	Body     io.Reader
}
