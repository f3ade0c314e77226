package handlers

import (
	"errors"
	"net/http"

	"campusnews/internal/logger"
	"campusnews/internal/middleware"
	"campusnews/internal/models"
	"campusnews/internal/reqctx"
	"campusnews/internal/services"
	"campusnews/internal/session"
	helpers "campusnews/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type EngagementHandler struct {
	engage *services.EngagementService
	resp   *Responder
}

func NewEngagementHandler(engage *services.EngagementService, resp *Responder) *EngagementHandler {
	return &EngagementHandler{engage: engage, resp: resp}
}

// ajaxResult — ответ JS-клиенту без конверта.
type ajaxResult struct {
	Success    bool         `json:"success"`
	Error      string       `json:"error,omitempty"`
	Comment    *ajaxComment `json:"comment,omitempty"`
	Liked      *bool        `json:"liked,omitempty"`
	LikesCount *int64       `json:"likes_count,omitempty"`
}

type ajaxComment struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Like
// @Summary      Лайк / снятие лайка
// @Description  Переключает лайк текущего пользователя. Не-POST — только редирект на статью.
// @Tags         engagement
// @Produce      json
// @Param        slug  path  string  true  "Slug статьи"
// @Success      303 {string} string "Редирект на статью"
// @Success      200 {object} ajaxResult "Для XHR"
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /article/{slug}/like/ [post]
func (h *EngagementHandler) Like(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if r.Method != http.MethodPost {
		http.Redirect(w, r, articleURL(slug), http.StatusSeeOther)
		return
	}

	liked, article, err := h.engage.ToggleLike(r.Context(), slug, reqctx.User(r.Context()))
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}

	if middleware.IsScriptRequest(r) {
		helpers.Raw(w, http.StatusOK, ajaxResult{Success: true, Liked: &liked, LikesCount: &article.LikesCount})
		return
	}
	if liked {
		h.resp.Redirect(w, r, articleURL(slug), session.LevelSuccess, "Article liked!")
		return
	}
	h.resp.Redirect(w, r, articleURL(slug), session.LevelInfo, "Article unliked!")
}

// CreateComment
// @Summary      Добавить комментарий
// @Description  Для XHR отвечает JSON {success, comment{id, content, author}}, иначе редирект на статью
// @Tags         engagement
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        slug     path      string  true  "Slug статьи"
// @Param        content  formData  string  true  "Текст комментария"
// @Success      200 {object} ajaxResult
// @Failure      400 {object} ajaxResult
// @Failure      404 {object} ajaxResult
// @Security     ApiKeyAuth
// @Router       /article/{slug}/comment/ [post]
func (h *EngagementHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.WithCtx(ctx)
	slug := mux.Vars(r)["slug"]
	script := middleware.IsScriptRequest(r)

	if r.Method != http.MethodPost {
		http.Redirect(w, r, articleURL(slug), http.StatusSeeOther)
		return
	}

	var form models.CommentForm
	if err := decodeForm(r, &form); err != nil {
		log.Warn("engagement: не удалось разобрать форму комментария", zap.Error(err))
	}

	c, err := h.engage.CommentOn(ctx, slug, reqctx.User(ctx), form)
	if err != nil {
		fields, invalid := services.AsValidation(err)
		switch {
		case script && invalid:
			helpers.Raw(w, http.StatusBadRequest, ajaxResult{Error: "Invalid form"})
		case script && isNotFound(err):
			helpers.Raw(w, http.StatusNotFound, ajaxResult{Error: "Article not found"})
		case invalid:
			h.resp.Redirect(w, r, articleURL(slug), session.LevelError, firstMessage(fields))
		default:
			h.resp.Fail(w, r, err)
		}
		return
	}

	if script {
		helpers.Raw(w, http.StatusOK, ajaxResult{
			Success: true,
			Comment: &ajaxComment{ID: c.ID, Content: c.Content, Author: c.AuthorUsername},
		})
		return
	}
	h.resp.Redirect(w, r, articleURL(slug), session.LevelSuccess, "Comment posted successfully!")
}

// commentView — форма правки или подтверждение удаления комментария.
type commentView struct {
	Comment *models.Comment   `json:"comment"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// EditComment
// @Summary      Редактировать комментарий
// @Description  Автор или staff. Остальные получают флеш-ошибку и редирект на статью.
// @Tags         engagement
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id       path      int     true   "ID комментария"
// @Param        content  formData  string  false  "Новый текст (POST)"
// @Success      200 {object} helpers.Response{data=commentView}
// @Success      303 {string} string "Редирект на статью"
// @Failure      400 {object} helpers.Response{data=commentView}
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /comments/{id}/edit/ [get]
// @Router       /comments/{id}/edit/ [post]
func (h *EngagementHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		h.resp.Fail(w, r, services.ErrNotFound)
		return
	}
	user := reqctx.User(ctx)

	if r.Method != http.MethodPost {
		c, err := h.engage.CommentForChange(ctx, id, user)
		if h.softDenied(w, r, c, err, "You do not have permission to edit this comment.") {
			return
		}
		h.resp.Render(w, r, http.StatusOK, commentView{Comment: c})
		return
	}

	var form models.CommentForm
	if err := decodeForm(r, &form); err != nil {
		logger.WithCtx(ctx).Warn("engagement: не удалось разобрать форму комментария", zap.Error(err))
	}
	c, err := h.engage.EditComment(ctx, id, user, form)
	if h.softDenied(w, r, c, err, "You do not have permission to edit this comment.") {
		return
	}
	if fields, invalid := services.AsValidation(err); invalid {
		h.resp.FormErrors(w, r, commentView{Comment: c, Errors: fields}, fields)
		return
	}
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Redirect(w, r, articleURL(c.ArticleSlug), session.LevelSuccess, "Comment updated successfully!")
}

// DeleteComment
// @Summary      Удалить комментарий
// @Description  GET — подтверждение, POST — удаление. Автор или staff.
// @Tags         engagement
// @Produce      json
// @Param        id  path  int  true  "ID комментария"
// @Success      200 {object} helpers.Response{data=commentView}
// @Success      303 {string} string "Редирект на статью"
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /comments/{id}/delete/ [get]
// @Router       /comments/{id}/delete/ [post]
func (h *EngagementHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		h.resp.Fail(w, r, services.ErrNotFound)
		return
	}
	user := reqctx.User(ctx)
	const denied = "You do not have permission to delete this comment."

	if r.Method != http.MethodPost {
		c, err := h.engage.CommentForChange(ctx, id, user)
		if h.softDenied(w, r, c, err, denied) {
			return
		}
		h.resp.Render(w, r, http.StatusOK, commentView{Comment: c})
		return
	}

	c, err := h.engage.DeleteComment(ctx, id, user)
	if h.softDenied(w, r, c, err, denied) {
		return
	}
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Redirect(w, r, articleURL(c.ArticleSlug), session.LevelSuccess, "Comment deleted successfully!")
}

// softDenied закрывает запрос, если прав нет (флеш + редирект на статью)
// или комментарий не найден. Возвращает true, если ответ уже записан.
func (h *EngagementHandler) softDenied(w http.ResponseWriter, r *http.Request, c *models.Comment, err error, msg string) bool {
	switch {
	case errors.Is(err, services.ErrForbidden):
		h.resp.Redirect(w, r, articleURL(c.ArticleSlug), session.LevelError, msg)
		return true
	case err != nil && c == nil:
		h.resp.Fail(w, r, err)
		return true
	}
	return false
}

// AjaxDeleteComment
// @Summary      Удалить комментарий (XHR)
// @Description  Та же проверка прав, что и у обычного удаления. Ответ без конверта: {success, error?}.
// @Tags         engagement
// @Produce      json
// @Param        id  path  int  true  "ID комментария"
// @Success      200 {object} ajaxResult
// @Failure      400 {object} ajaxResult
// @Failure      401 {object} ajaxResult
// @Failure      403 {object} ajaxResult
// @Failure      404 {object} ajaxResult
// @Security     ApiKeyAuth
// @Router       /comments/delete/{id}/ [post]
func (h *EngagementHandler) AjaxDeleteComment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		helpers.Raw(w, http.StatusBadRequest, ajaxResult{Error: "Invalid request method"})
		return
	}
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		helpers.Raw(w, http.StatusNotFound, ajaxResult{Error: "Comment not found"})
		return
	}

	_, err := h.engage.DeleteComment(r.Context(), id, reqctx.User(r.Context()))
	switch {
	case err == nil:
		helpers.Raw(w, http.StatusOK, ajaxResult{Success: true})
	case isNotFound(err):
		helpers.Raw(w, http.StatusNotFound, ajaxResult{Error: "Comment not found"})
	case errors.Is(err, services.ErrForbidden):
		helpers.Raw(w, http.StatusForbidden, ajaxResult{Error: "You do not have permission to delete this comment."})
	default:
		logger.WithCtx(r.Context()).Error("engagement: ошибка ajax-удаления", zap.Int64("id", id), zap.Error(err))
		helpers.Raw(w, http.StatusInternalServerError, ajaxResult{Error: "internal server error"})
	}
}

// Moderate
// @Summary      Модерация комментария
// @Description  Только для администраторов: скрыть (disapprove) или вернуть (approve) комментарий
// @Tags         engagement
// @Produce      json
// @Param        id  path  int  true  "ID комментария"
// @Success      303 {string} string "Редирект на статью"
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /comments/{id}/approve/ [post]
// @Router       /comments/{id}/disapprove/ [post]
func (h *EngagementHandler) Moderate(approved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(mux.Vars(r)["id"])
		if !ok {
			h.resp.Fail(w, r, services.ErrNotFound)
			return
		}
		c, err := h.engage.SetApproval(r.Context(), id, approved)
		if err != nil {
			h.resp.Fail(w, r, err)
			return
		}
		if middleware.IsScriptRequest(r) {
			helpers.Raw(w, http.StatusOK, ajaxResult{Success: true})
			return
		}
		msg := "Comment approved."
		if !approved {
			msg = "Comment hidden."
		}
		h.resp.Redirect(w, r, articleURL(c.ArticleSlug), session.LevelSuccess, msg)
	}
}

// firstMessage — ошибка для флеша, когда форму некуда показать.
func firstMessage(fields map[string]string) string {
	if msg, ok := fields["content"]; ok {
		return "Comment: " + msg
	}
	for _, msg := range fields {
		return msg
	}
	return "Invalid form"
}
