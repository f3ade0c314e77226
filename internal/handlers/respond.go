package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"campusnews/internal/logger"
	"campusnews/internal/services"
	"campusnews/internal/session"
	"campusnews/internal/storage"
	helpers "campusnews/internal/utils/helpers"

	"github.com/gorilla/schema"
	"go.uber.org/zap"
)

// Responder — общие ответы обработчиков: view с флеш-сообщениями,
// ошибки форм, redirect-after-post.
type Responder struct {
	sessions *session.Store
}

func NewResponder(sessions *session.Store) *Responder {
	return &Responder{sessions: sessions}
}

// Render отдаёт view вместе с накопленными флеш-сообщениями.
func (rs *Responder) Render(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	helpers.Write(w, status, helpers.Response{Data: data, Messages: rs.sessions.Flashes(w, r)})
}

// FormErrors — 400: форма не прошла проверку, ничего не записано.
func (rs *Responder) FormErrors(w http.ResponseWriter, r *http.Request, data interface{}, fields map[string]string) {
	helpers.Write(w, http.StatusBadRequest, helpers.Response{
		Data:     data,
		Error:    "validation failed",
		Fields:   fields,
		Messages: rs.sessions.Flashes(w, r),
	})
}

// Redirect — 303 с флеш-сообщением для следующей страницы.
func (rs *Responder) Redirect(w http.ResponseWriter, r *http.Request, to, level, text string) {
	if text != "" {
		rs.sessions.AddFlash(w, r, level, text)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Fail переводит ошибку сервиса в HTTP-ответ.
func (rs *Responder) Fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		helpers.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrForbidden):
		helpers.Error(w, http.StatusForbidden, "forbidden")
	default:
		logger.WithCtx(r.Context()).Error("Необработанная ошибка", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

const maxFormMemory = storage.MaxImageSize + 1<<20

// formDecoder кэширует разбор структур; безопасен для конкурентного использования.
var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("form")
	d.IgnoreUnknownKeys(true)
	return d
}

// formFieldsError — значения, которые не приводятся к типу поля (category=abc).
type formFieldsError struct {
	fields map[string]string
}

func (e *formFieldsError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid form values: " + strings.Join(keys, ", ")
}

// asFormFields достаёт ошибки полей из ошибки decodeForm.
func asFormFields(err error) (map[string]string, bool) {
	var fe *formFieldsError
	if errors.As(err, &fe) {
		return fe.fields, true
	}
	return nil, false
}

// decodeForm заполняет структуру из JSON-тела или из полей формы (по тегу form).
// Пустые значения оставляют поле нулевым, неприводимые возвращаются как *formFieldsError.
func decodeForm(r *http.Request, dst interface{}) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return json.NewDecoder(r.Body).Decode(dst)
	}

	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return err
		}
	} else if err := r.ParseForm(); err != nil {
		return err
	}

	err := formDecoder.Decode(dst, r.PostForm)
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return err
	}
	fields := make(map[string]string, len(multi))
	for key := range multi {
		fields[key] = "Enter a valid value."
	}
	return &formFieldsError{fields: fields}
}

// pathID — числовой id из маршрута; маршруты пропускают только цифры.
func pathID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

// safeNext — только локальные пути, чтобы next не уводил на чужой сайт.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func articleURL(slug string) string {
	return "/article/" + slug + "/"
}
