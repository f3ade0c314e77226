package handlers

import (
	"errors"
	"net/http"

	"campusnews/internal/logger"
	"campusnews/internal/models"
	"campusnews/internal/services"
	"campusnews/internal/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categories *services.CategoryService
	resp       *Responder
}

func NewCategoryHandler(categories *services.CategoryService, resp *Responder) *CategoryHandler {
	return &CategoryHandler{categories: categories, resp: resp}
}

type categoryFormView struct {
	Action   string            `json:"action"`
	Category *models.Category  `json:"category,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// List
// @Summary      Категории
// @Description  Все категории по имени с числом статей
// @Tags         categories
// @Produce      json
// @Success      200 {object} helpers.Response{data=[]models.CategoryWithCount}
// @Security     ApiKeyAuth
// @Router       /categories/ [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.categories.List(r.Context())
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, map[string]interface{}{"categories": list})
}

// Create
// @Summary      Создать категорию
// @Tags         categories
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        name         formData  string  true   "Название (уникальное)"
// @Param        description  formData  string  false  "Описание"
// @Success      200 {object} helpers.Response{data=categoryFormView}
// @Success      303 {string} string "Редирект на /categories/"
// @Failure      400 {object} helpers.Response{data=categoryFormView}
// @Security     ApiKeyAuth
// @Router       /categories/create/ [get]
// @Router       /categories/create/ [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.resp.Render(w, r, http.StatusOK, categoryFormView{Action: "Create"})
		return
	}

	var form models.CategoryForm
	if err := decodeForm(r, &form); err != nil {
		logger.WithCtx(r.Context()).Warn("categories: не удалось разобрать форму", zap.Error(err))
	}
	if _, err := h.categories.Create(r.Context(), form); err != nil {
		if fields, ok := services.AsValidation(err); ok {
			h.resp.FormErrors(w, r, categoryFormView{Action: "Create", Errors: fields}, fields)
			return
		}
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Redirect(w, r, "/categories/", session.LevelSuccess, "Category created successfully!")
}

// Edit
// @Summary      Редактировать категорию
// @Tags         categories
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id           path      int     true   "ID категории"
// @Param        name         formData  string  false  "Название"
// @Param        description  formData  string  false  "Описание"
// @Success      200 {object} helpers.Response{data=categoryFormView}
// @Success      303 {string} string "Редирект на /categories/"
// @Failure      400 {object} helpers.Response{data=categoryFormView}
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /categories/{id}/edit/ [get]
// @Router       /categories/{id}/edit/ [post]
func (h *CategoryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		h.resp.Fail(w, r, services.ErrNotFound)
		return
	}
	c, err := h.categories.Get(r.Context(), id)
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		h.resp.Render(w, r, http.StatusOK, categoryFormView{Action: "Edit", Category: c})
		return
	}

	var form models.CategoryForm
	if err := decodeForm(r, &form); err != nil {
		logger.WithCtx(r.Context()).Warn("categories: не удалось разобрать форму", zap.Error(err))
	}
	if _, err := h.categories.Update(r.Context(), id, form); err != nil {
		if fields, ok := services.AsValidation(err); ok {
			h.resp.FormErrors(w, r, categoryFormView{Action: "Edit", Category: c, Errors: fields}, fields)
			return
		}
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Redirect(w, r, "/categories/", session.LevelSuccess, "Category updated successfully!")
}

// Delete
// @Summary      Удалить категорию
// @Description  Категорию со статьями удалить нельзя: флеш-ошибка и редирект на список
// @Tags         categories
// @Produce      json
// @Param        id  path  int  true  "ID категории"
// @Success      200 {object} helpers.Response{data=models.Category}
// @Success      303 {string} string "Редирект на /categories/"
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /categories/{id}/delete/ [get]
// @Router       /categories/{id}/delete/ [post]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		h.resp.Fail(w, r, services.ErrNotFound)
		return
	}

	if r.Method != http.MethodPost {
		c, err := h.categories.Get(r.Context(), id)
		if err != nil {
			h.resp.Fail(w, r, err)
			return
		}
		h.resp.Render(w, r, http.StatusOK, map[string]interface{}{"category": c})
		return
	}

	c, err := h.categories.Delete(r.Context(), id)
	switch {
	case errors.Is(err, services.ErrCategoryInUse):
		h.resp.Redirect(w, r, "/categories/", session.LevelError,
			`Cannot delete category "`+c.Name+`" while it still has articles.`)
	case err != nil:
		h.resp.Fail(w, r, err)
	default:
		h.resp.Redirect(w, r, "/categories/", session.LevelSuccess, "Category deleted successfully!")
	}
}
