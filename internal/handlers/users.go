package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"campusnews/internal/reqctx"
	"campusnews/internal/services"
	"campusnews/internal/session"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	users *services.UserAdminService
	resp  *Responder
}

func NewUserHandler(users *services.UserAdminService, resp *Responder) *UserHandler {
	return &UserHandler{users: users, resp: resp}
}

func userURL(id int64) string {
	return fmt.Sprintf("/users/%d/", id)
}

// List
// @Summary      Пользователи
// @Description  Поиск q по логину, имени и email; staff=true|false; 15 на страницу
// @Tags         users
// @Produce      json
// @Param        q      query  string  false  "Поиск"
// @Param        staff  query  string  false  "true | false"
// @Param        page   query  string  false  "Номер страницы"
// @Success      200 {object} helpers.Response{data=models.UserListView}
// @Security     ApiKeyAuth
// @Router       /users/ [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.users.List(r.Context(), services.UserListQuery{
		Query: q.Get("q"),
		Staff: q.Get("staff"),
		Page:  q.Get("page"),
	})
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, view)
}

// Detail
// @Summary      Карточка пользователя
// @Tags         users
// @Produce      json
// @Param        id  path  int  true  "ID пользователя"
// @Success      200 {object} helpers.Response{data=models.UserDetailView}
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /users/{id}/ [get]
func (h *UserHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		h.resp.Fail(w, r, services.ErrNotFound)
		return
	}
	view, err := h.users.Detail(r.Context(), id)
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Render(w, r, http.StatusOK, view)
}

// ToggleStaff
// @Summary      Переключить staff
// @Tags         users
// @Param        id  path  int  true  "ID пользователя"
// @Success      303 {string} string "Редирект на карточку"
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /users/{id}/toggle-staff/ [post]
func (h *UserHandler) ToggleStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		h.resp.Fail(w, r, services.ErrNotFound)
		return
	}
	if r.Method != http.MethodPost {
		http.Redirect(w, r, userURL(id), http.StatusSeeOther)
		return
	}
	u, err := h.users.ToggleStaff(r.Context(), id)
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	role := "regular user"
	if u.IsStaff {
		role = "admin"
	}
	h.resp.Redirect(w, r, userURL(id), session.LevelSuccess, u.Username+" is now a "+role+".")
}

// ToggleActive
// @Summary      Переключить активность
// @Description  Неактивный пользователь не может войти, а выданные ему токены перестают действовать
// @Tags         users
// @Param        id  path  int  true  "ID пользователя"
// @Success      303 {string} string "Редирект на карточку"
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /users/{id}/toggle-active/ [post]
func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		h.resp.Fail(w, r, services.ErrNotFound)
		return
	}
	if r.Method != http.MethodPost {
		http.Redirect(w, r, userURL(id), http.StatusSeeOther)
		return
	}
	u, err := h.users.ToggleActive(r.Context(), id)
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	state := "deactivated"
	if u.IsActive {
		state = "activated"
	}
	h.resp.Redirect(w, r, userURL(id), session.LevelSuccess, u.Username+" has been "+state+".")
}

// Delete
// @Summary      Удалить пользователя
// @Description  GET — всё, что будет удалено каскадом; POST — удаление. Себя удалить нельзя.
// @Tags         users
// @Produce      json
// @Param        id  path  int  true  "ID пользователя"
// @Success      200 {object} helpers.Response{data=models.UserDeleteView}
// @Success      303 {string} string "Редирект"
// @Failure      404 {object} helpers.Response
// @Security     ApiKeyAuth
// @Router       /users/{id}/delete/ [get]
// @Router       /users/{id}/delete/ [post]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		h.resp.Fail(w, r, services.ErrNotFound)
		return
	}
	actor := reqctx.User(ctx)

	if r.Method != http.MethodPost {
		view, err := h.users.DeleteConfirmation(ctx, actor, id)
		if h.selfDelete(w, r, id, err) {
			return
		}
		if err != nil {
			h.resp.Fail(w, r, err)
			return
		}
		h.resp.Render(w, r, http.StatusOK, view)
		return
	}

	u, err := h.users.Delete(ctx, actor, id)
	if h.selfDelete(w, r, id, err) {
		return
	}
	if err != nil {
		h.resp.Fail(w, r, err)
		return
	}
	h.resp.Redirect(w, r, "/users/", session.LevelSuccess, `User "`+u.Username+`" has been deleted successfully.`)
}

func (h *UserHandler) selfDelete(w http.ResponseWriter, r *http.Request, id int64, err error) bool {
	if !errors.Is(err, services.ErrSelfDelete) {
		return false
	}
	h.resp.Redirect(w, r, userURL(id), session.LevelError, "You cannot delete your own account.")
	return true
}
