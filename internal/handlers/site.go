package handlers

import (
	"net/http"

	"campusnews/internal/logger"
	"campusnews/internal/models"
	"campusnews/internal/reqctx"
	"campusnews/internal/services"
	"campusnews/internal/session"

	"go.uber.org/zap"
)

type SiteHandler struct {
	site *services.SiteService
	resp *Responder
}

func NewSiteHandler(site *services.SiteService, resp *Responder) *SiteHandler {
	return &SiteHandler{site: site, resp: resp}
}

// Settings
// @Summary      Настройки сайта
// @Tags         site
// @Produce      json
// @Success      200 {object} helpers.Response{data=models.SettingsView}
// @Failure      403 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /settings/ [get]
func (h *SiteHandler) Settings(w http.ResponseWriter, r *http.Request) {
	view, err := h.site.Settings(r.Context())
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, view)
}

// About
// @Summary      О портале
// @Tags         site
// @Produce      json
// @Success      200 {object} helpers.Response{data=models.AboutView}
// @Router       /about/ [get]
func (h *SiteHandler) About(w http.ResponseWriter, r *http.Request) {
	view, err := h.site.About(r.Context())
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, view)
}

// Profile
// @Summary      Профиль
// @Description  GET — свои последние статьи и комментарии; POST — смена имени, фамилии и email
// @Tags         site
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        first_name  formData  string  false  "Имя"
// @Param        last_name   formData  string  false  "Фамилия"
// @Param        email       formData  string  false  "Email"
// @Success      200 {object} helpers.Response{data=models.UserDetailView}
// @Success      303 {string} string "Редирект на /profile/"
// @Failure      400 {object} helpers.Response{data=models.UserDetailView}
// @Security     ApiKeyAuth
// @Router       /profile/ [get]
// @Router       /profile/ [post]
func (h *SiteHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := reqctx.User(ctx)

	if r.Method == http.MethodPost {
		var form models.ProfileForm
		if err := decodeForm(r, &form); err != nil {
			logger.WithCtx(ctx).Warn("site: не удалось разобрать форму профиля", zap.Error(err))
		}
		err := h.site.UpdateProfile(ctx, user, form)
		if err == nil {
			h.resp.Redirect(w, r, "/profile/", session.LevelSuccess, "Profile updated successfully!")
			return
		}
		fields, ok := services.AsValidation(err)
		if !ok {
			h.resp.Fail(w, r, err)
			return
		}
		view, err := h.site.Profile(ctx, user)
		if err != nil {
			h.resp.Fail(w, r, err)
			return
		}
		h.resp.FormErrors(w, r, view, fields)
		return
	}

	view, err := h.site.Profile(ctx, user)
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, view)
}

type contactView struct {
	Errors map[string]string `json:"errors,omitempty"`
}

// Contact
// @Summary      Обратная связь
// @Description  Сообщение отправляется письмом на адрес обратной связи и не сохраняется
// @Tags         site
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        name     formData  string  true  "Имя"
// @Param        email    formData  string  true  "Email"
// @Param        subject  formData  string  true  "Тема"
// @Param        message  formData  string  true  "Сообщение"
// @Success      200 {object} helpers.Response{data=contactView}
// @Success      303 {string} string "Редирект на /contact/"
// @Failure      400 {object} helpers.Response{data=contactView}
// @Failure      429 {object} helpers.Response
// @Router       /contact/ [get]
// @Router       /contact/ [post]
func (h *SiteHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.resp.Render(w, r, http.StatusOK, contactView{})
		return
	}

	var form models.ContactForm
	if err := decodeForm(r, &form); err != nil {
		logger.WithCtx(r.Context()).Warn("site: не удалось разобрать форму обращения", zap.Error(err))
	}
	if err := h.site.Contact(r.Context(), form); err != nil {
		if fields, ok := services.AsValidation(err); ok {
			h.resp.FormErrors(w, r, contactView{Errors: fields}, fields)
			return
		}
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Redirect(w, r, "/contact/", session.LevelSuccess, "Thank you for your message! We will get back to you soon.")
}
