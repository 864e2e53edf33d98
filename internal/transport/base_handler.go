package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/identity"
	"github.com/frahmantamala/task-management/internal/transport/flash"
	"github.com/frahmantamala/task-management/internal/transport/view"
	"github.com/frahmantamala/task-management/pkg/logger"
)

const (
	LoginPath = "/user/login"

	genericErrorMessage = "Something went wrong, please try again"
)

// IdentityHandlerFunc is a handler behind the auth gate. The identity is the
// one resolved for this request.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, id identity.Identity)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
	Views  *view.Renderer
	Flash  *flash.Store
}

func NewBaseHandler(lg *slog.Logger, views *view.Renderer, fl *flash.Store) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg, Views: views, Flash: fl}
}

// Identified adapts fn to http.HandlerFunc. Requests that reach it without an
// identity are sent to the login page.
func (h *BaseHandler) Identified(fn IdentityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := internal.IdentityFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		fn(w, r, id)
	}
}

// Render writes page with the pending flash messages and the request identity.
func (h *BaseHandler) Render(w http.ResponseWriter, r *http.Request, page string, data view.Data) {
	if data == nil {
		data = view.Data{}
	}
	data["Flash"] = h.Flash.Pop(w, r)
	if id, ok := internal.IdentityFromContext(r.Context()); ok {
		data["Identity"] = id
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Views.Render(w, page, data); err != nil {
		logger.From(r.Context()).Error("failed to render page", "page", page, "error", err)
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
	}
}

func (h *BaseHandler) Redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Succeed flashes msg and redirects.
func (h *BaseHandler) Succeed(w http.ResponseWriter, r *http.Request, to, msg string) {
	h.flash(w, r, flash.KindSuccess, msg)
	h.Redirect(w, r, to)
}

// Fail turns err into a flash message and redirects to `to`. Application errors
// show their message; anything else is logged and answered with a generic
// message on the caller's home page.
func (h *BaseHandler) Fail(w http.ResponseWriter, r *http.Request, to string, err error) {
	log := logger.From(r.Context())

	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.Type == internal.ErrorTypeInternal {
		log.Error("request failed", "path", r.URL.Path, "error", err)
		if id, ok := internal.IdentityFromContext(r.Context()); ok {
			to = id.Role.Home()
		}
		h.flash(w, r, flash.KindError, genericErrorMessage)
		h.Redirect(w, r, to)
		return
	}

	log.Warn("request rejected",
		"path", r.URL.Path,
		"type", appErr.Type,
		"code", appErr.Code,
		"message", appErr.GetDetailedMessage())
	h.flash(w, r, flash.KindError, appErr.GetDetailedMessage())
	h.Redirect(w, r, to)
}

// ServerError answers 500 for pages that have nowhere safe to redirect to,
// such as the role dashboards.
func (h *BaseHandler) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	logger.From(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	http.Error(w, genericErrorMessage, http.StatusInternalServerError)
}

func (h *BaseHandler) flash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	if err := h.Flash.Add(w, r, kind, msg); err != nil {
		logger.From(r.Context()).Warn("failed to store flash message", "error", err)
	}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}
