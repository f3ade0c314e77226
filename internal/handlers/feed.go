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

type FeedHandler struct {
	feed   *services.FeedService
	engage *services.EngagementService
	resp   *Responder
}

func NewFeedHandler(feed *services.FeedService, engage *services.EngagementService, resp *Responder) *FeedHandler {
	return &FeedHandler{feed: feed, engage: engage, resp: resp}
}

// Home
// @Summary      Лента новостей
// @Description  Опубликованные статьи с поиском, фильтром по категории и пагинацией (6 на страницу)
// @Tags         feed
// @Produce      json
// @Param        q         query  string  false  "Поиск по заголовку, тексту и анонсу"
// @Param        category  query  string  false  "ID категории"
// @Param        page      query  string  false  "Номер страницы"
// @Success      200 {object} helpers.Response{data=models.HomeView}
// @Failure      500 {object} helpers.Response
// @Router       / [get]
func (h *FeedHandler) Home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.feed.Home(r.Context(), services.HomeQuery{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Page:     q.Get("page"),
	})
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, view)
}

// Detail
// @Summary      Статья
// @Description  Карточка опубликованной статьи; каждый показ увеличивает счётчик просмотров. POST добавляет комментарий.
// @Tags         feed
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        slug     path      string  true   "Slug статьи"
// @Param        content  formData  string  false  "Текст комментария (POST)"
// @Success      200 {object} helpers.Response{data=models.ArticleDetailView}
// @Success      303 {string} string "Комментарий добавлен"
// @Failure      400 {object} helpers.Response{data=models.ArticleDetailView}
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /article/{slug}/ [get]
// @Router       /article/{slug}/ [post]
func (h *FeedHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.WithCtx(ctx)
	slug := mux.Vars(r)["slug"]
	user := reqctx.User(ctx)

	article, err := h.feed.OpenArticle(ctx, slug)
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}

	var commentErrors map[string]string
	if r.Method == http.MethodPost {
		var form models.CommentForm
		if err := decodeForm(r, &form); err != nil {
			log.Warn("feed: не удалось разобрать форму комментария", zap.Error(err))
			commentErrors = map[string]string{"content": "This field is required."}
		} else if _, err := h.engage.AddComment(ctx, article, user, form); err != nil {
			fields, ok := services.AsValidation(err)
			if !ok {
				h.resp.Fail(w, r, err)
				return
			}
			commentErrors = fields
		} else {
			h.resp.Redirect(w, r, articleURL(slug), session.LevelSuccess, "Comment posted successfully!")
			return
		}
	}

	view, err := h.feed.DetailView(ctx, article, user)
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	if commentErrors != nil {
		view.CommentErrors = commentErrors
		h.resp.FormErrors(w, r, view, commentErrors)
		return
	}
	h.resp.Render(w, r, http.StatusOK, view)
}

func isNotFound(err error) bool {
	return errors.Is(err, services.ErrNotFound)
}
