package handler

import (
	"net/http"

	"projeto_nfc/internal/api/middleware"
	"projeto_nfc/internal/app/service"
	"projeto_nfc/internal/common"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	recordService *service.RecordService
	auth          middleware.AuthChecker
}

func NewAdminHandler(rs *service.RecordService, auth middleware.AuthChecker) *AdminHandler {
	return &AdminHandler{recordService: rs, auth: auth}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.RequireAdmin(h.auth))
		adminRouter.Get("/users", h.listUsers) // GET /api/admin/users
	})
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.recordService.ListAll(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}
