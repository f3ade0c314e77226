package handlers

import (
	"errors"
	"net/http"
	"time"

	"campusnews/internal/logger"
	"campusnews/internal/middleware"
	"campusnews/internal/models"
	"campusnews/internal/reqctx"
	"campusnews/internal/services"
	"campusnews/internal/session"
	helpers "campusnews/internal/utils/helpers"

	"go.uber.org/zap"
)

const invalidLoginMsg = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type AuthHandler struct {
	auth         *services.AuthService
	resp         *Responder
	siteName     string
	secureCookie bool
}

func NewAuthHandler(auth *services.AuthService, resp *Responder, siteName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, resp: resp, siteName: siteName, secureCookie: secureCookie}
}

type loginView struct {
	Next   string            `json:"next"`
	Errors map[string]string `json:"errors,omitempty"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// Login
// @Summary      Вход
// @Description  Выдаёт access-токен: HttpOnly cookie access_token и {token} для JS-клиентов. Формы получают редирект на next.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true   "Логин"
// @Param        password  formData  string  true   "Пароль"
// @Param        next      query     string  false  "Куда вернуться после входа"
// @Success      200 {object} helpers.Response{data=tokenResponse}
// @Success      303 {string} string "Редирект на next"
// @Failure      400 {object} helpers.Response{data=loginView}
// @Failure      429 {object} helpers.Response
// @Router       /login/ [get]
// @Router       /login/ [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	next := safeNext(r.URL.Query().Get("next"))

	if reqctx.User(ctx) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if r.Method != http.MethodPost {
		h.resp.Render(w, r, http.StatusOK, loginView{Next: next})
		return
	}

	var form models.LoginForm
	if err := decodeForm(r, &form); err != nil {
		logger.WithCtx(ctx).Warn("auth: не удалось разобрать форму входа", zap.Error(err))
	}
	if n := r.PostFormValue("next"); n != "" {
		next = safeNext(n)
	}

	sess, err := h.auth.Login(ctx, form)
	if err != nil {
		fields, invalid := services.AsValidation(err)
		switch {
		case invalid:
		case errors.Is(err, services.ErrInvalidCredentials):
			fields = map[string]string{"__all__": invalidLoginMsg}
		default:
			h.resp.Fail(w, r, err)
			return
		}
		h.resp.FormErrors(w, r, loginView{Next: next, Errors: fields}, fields)
		return
	}

	h.setCookie(w, sess)
	h.finish(w, r, sess, next, "Welcome back, "+sess.User.Username+"!")
}

type registerView struct {
	Errors map[string]string `json:"errors,omitempty"`
}

// Register
// @Summary      Регистрация
// @Description  Создаёт активного пользователя без прав staff и сразу выполняет вход
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username    formData  string  true  "Логин"
// @Param        email       formData  string  true  "Email"
// @Param        first_name  formData  string  true  "Имя"
// @Param        last_name   formData  string  true  "Фамилия"
// @Param        password1   formData  string  true  "Пароль"
// @Param        password2   formData  string  true  "Повтор пароля"
// @Success      200 {object} helpers.Response{data=tokenResponse}
// @Success      303 {string} string "Редирект на главную"
// @Failure      400 {object} helpers.Response{data=registerView}
// @Router       /register/ [get]
// @Router       /register/ [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if reqctx.User(ctx) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if r.Method != http.MethodPost {
		h.resp.Render(w, r, http.StatusOK, registerView{})
		return
	}

	var form models.RegisterForm
	if err := decodeForm(r, &form); err != nil {
		logger.WithCtx(ctx).Warn("auth: не удалось разобрать форму регистрации", zap.Error(err))
	}

	sess, err := h.auth.Register(ctx, form)
	if err != nil {
		if fields, ok := services.AsValidation(err); ok {
			h.resp.FormErrors(w, r, registerView{Errors: fields}, fields)
			return
		}
		h.resp.Fail(w, r, err)
		return
	}

	h.setCookie(w, sess)
	h.finish(w, r, sess, "/",
		"Welcome to "+h.siteName+", "+sess.User.Username+"! You can now like and comment on articles.")
}

// Logout
// @Summary      Выход
// @Description  Отзывает текущий токен до истечения срока и очищает cookie
// @Tags         auth
// @Success      303 {string} string "Редирект на главную"
// @Security     ApiKeyAuth
// @Router       /logout/ [get]
// @Router       /logout/ [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.auth.Logout(ctx, reqctx.Token(ctx)); err != nil {
		h.resp.Fail(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	h.resp.Redirect(w, r, "/", session.LevelInfo, "You have been logged out successfully.")
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, sess *services.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.Claims.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// finish: JS-клиент получает токен в теле, форма — редирект с флешем.
func (h *AuthHandler) finish(w http.ResponseWriter, r *http.Request, sess *services.Session, next, msg string) {
	if middleware.IsScriptRequest(r) {
		helpers.JSON(w, http.StatusOK, tokenResponse{
			Token:     sess.Token,
			ExpiresAt: sess.Claims.ExpiresAt,
			Username:  sess.User.Username,
			Role:      sess.User.Role(),
		})
		return
	}
	h.resp.Redirect(w, r, next, session.LevelSuccess, msg)
}
