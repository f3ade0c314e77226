package handlers

import (
	"errors"
	"net/http"

	"campusnews/internal/logger"
	"campusnews/internal/models"
	"campusnews/internal/reqctx"
	"campusnews/internal/services"
	"campusnews/internal/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ArticleHandler struct {
	articles *services.ArticleService
	resp     *Responder
}

func NewArticleHandler(articles *services.ArticleService, resp *Responder) *ArticleHandler {
	return &ArticleHandler{articles: articles, resp: resp}
}

// List
// @Summary      Статьи (админка)
// @Description  Администратор видит все статьи; поиск q, фильтр status, 10 на страницу
// @Tags         articles
// @Produce      json
// @Param        q       query  string  false  "Поиск"
// @Param        status  query  string  false  "draft | published"
// @Param        page    query  string  false  "Номер страницы"
// @Success      200 {object} helpers.Response{data=models.ArticleListView}
// @Failure      403 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /articles/ [get]
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.articles.List(r.Context(), reqctx.User(r.Context()), services.ArticleListQuery{
		Query:  q.Get("q"),
		Status: q.Get("status"),
		Page:   q.Get("page"),
	})
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, view)
}

// Create
// @Summary      Создать статью
// @Description  GET — данные формы, POST — создание (multipart, обложка в featured_image)
// @Tags         articles
// @Accept       multipart/form-data
// @Produce      json
// @Param        title           formData  string  true   "Заголовок"
// @Param        content         formData  string  true   "Текст (HTML)"
// @Param        excerpt         formData  string  false  "Анонс"
// @Param        category        formData  int     true   "ID категории"
// @Param        status          formData  string  true   "draft | published"
// @Param        featured_image  formData  file    false  "Обложка"
// @Success      200 {object} helpers.Response{data=models.ArticleFormView}
// @Success      303 {string} string "Редирект на /articles/"
// @Failure      400 {object} helpers.Response{data=models.ArticleFormView}
// @Security     ApiKeyAuth
// @Router       /articles/create/ [get]
// @Router       /articles/create/ [post]
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		h.renderForm(w, r, http.StatusOK, "Create", nil, nil)
		return
	}

	form, upload, err := readArticleForm(r)
	if err != nil {
		h.formFailed(w, r, "Create", nil, err)
		return
	}

	if _, err := h.articles.Create(ctx, reqctx.User(ctx), form, upload); err != nil {
		if fields, ok := services.AsValidation(err); ok {
			h.renderForm(w, r, http.StatusBadRequest, "Create", nil, fields)
			return
		}
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Redirect(w, r, "/articles/", session.LevelSuccess, "Article created successfully!")
}

// Edit
// @Summary      Редактировать статью
// @Description  Только свои статьи: чужая статья — 404 даже для администратора. Slug пересчитывается из заголовка.
// @Tags         articles
// @Accept       multipart/form-data
// @Produce      json
// @Param        slug            path      string  true   "Slug статьи"
// @Param        title           formData  string  false  "Заголовок"
// @Param        content         formData  string  false  "Текст (HTML)"
// @Param        excerpt         formData  string  false  "Анонс"
// @Param        category        formData  int     false  "ID категории"
// @Param        status          formData  string  false  "draft | published"
// @Param        featured_image  formData  file    false  "Новая обложка"
// @Success      200 {object} helpers.Response{data=models.ArticleFormView}
// @Success      303 {string} string "Редирект на /articles/"
// @Failure      400 {object} helpers.Response{data=models.ArticleFormView}
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /articles/{slug}/edit/ [get]
// @Router       /articles/{slug}/edit/ [post]
func (h *ArticleHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := mux.Vars(r)["slug"]
	user := reqctx.User(ctx)

	article, err := h.articles.Get(ctx, user, slug)
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		h.renderForm(w, r, http.StatusOK, "Edit", article, nil)
		return
	}

	form, upload, err := readArticleForm(r)
	if err != nil {
		h.formFailed(w, r, "Edit", article, err)
		return
	}

	if _, err := h.articles.Update(ctx, user, slug, form, upload); err != nil {
		if fields, ok := services.AsValidation(err); ok {
			h.renderForm(w, r, http.StatusBadRequest, "Edit", article, fields)
			return
		}
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Redirect(w, r, "/articles/", session.LevelSuccess, "Article updated successfully!")
}

// Delete
// @Summary      Удалить статью
// @Description  GET — подтверждение, POST — удаление вместе с комментариями и лайками
// @Tags         articles
// @Produce      json
// @Param        slug  path  string  true  "Slug статьи"
// @Success      200 {object} helpers.Response{data=models.Article}
// @Success      303 {string} string "Редирект на /articles/"
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /articles/{slug}/delete/ [get]
// @Router       /articles/{slug}/delete/ [post]
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := mux.Vars(r)["slug"]
	user := reqctx.User(ctx)

	if r.Method != http.MethodPost {
		article, err := h.articles.Get(ctx, user, slug)
		if err != nil {
			h.resp.Fail(w, r, err)
			return
		}
		h.resp.Render(w, r, http.StatusOK, map[string]interface{}{"article": article})
		return
	}

	if _, err := h.articles.Delete(ctx, user, slug); err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Redirect(w, r, "/articles/", session.LevelSuccess, "Article deleted successfully!")
}

// formFailed — поля не разобрались: неприводимые значения показываем у полей,
// остальное как ошибку всей формы.
func (h *ArticleHandler) formFailed(w http.ResponseWriter, r *http.Request, action string, a *models.Article, err error) {
	fields, ok := asFormFields(err)
	if !ok {
		logger.WithCtx(r.Context()).Warn("articles: не удалось разобрать форму", zap.Error(err))
		fields = map[string]string{"__all__": "Malformed form data."}
	}
	h.renderForm(w, r, http.StatusBadRequest, action, a, fields)
}

func (h *ArticleHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, action string, a *models.Article, fields map[string]string) {
	view, err := h.articles.FormView(r.Context(), action, a, fields)
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	if status == http.StatusBadRequest {
		h.resp.FormErrors(w, r, view, fields)
		return
	}
	h.resp.Render(w, r, status, view)
}

// readArticleForm разбирает поля и необязательный файл обложки.
// Файл читается сервисом до конца обработки запроса.
func readArticleForm(r *http.Request) (models.ArticleForm, *models.Upload, error) {
	var form models.ArticleForm
	if err := decodeForm(r, &form); err != nil {
		return form, nil, err
	}
	if r.MultipartForm == nil {
		return form, nil, nil
	}

	file, header, err := r.FormFile("featured_image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, nil
	}
	if err != nil {
		return form, nil, err
	}
	return form, &models.Upload{Filename: header.Filename, Body: file}, nil
}
