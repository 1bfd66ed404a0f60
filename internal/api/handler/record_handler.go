package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"projeto_nfc/internal/api/middleware"
	"projeto_nfc/internal/app/service"
	"projeto_nfc/internal/common"
	"projeto_nfc/internal/platform/logging"

	"github.com/go-chi/chi/v5"
)

const maxUnlockBody = 64 << 10

type RecordHandler struct {
	recordService *service.RecordService
	userLimiter   middleware.Limiter
	log           logging.Logger
}

// NewRecordHandler builds the public record routes. userLimiter may be nil;
// when set, each userId gets its own unlock budget.
func NewRecordHandler(rs *service.RecordService, userLimiter middleware.Limiter, log logging.Logger) *RecordHandler {
	return &RecordHandler{recordService: rs, userLimiter: userLimiter, log: log}
}

// RegisterRoutes mounts the public routes. unlockMW wraps only POST /unlock.
func (h *RecordHandler) RegisterRoutes(r chi.Router, unlockMW ...func(http.Handler) http.Handler) {
	r.Get("/public-info/{userId}", h.getPublicInfo) // GET /api/public-info/{userId}
	r.With(unlockMW...).Post("/unlock", h.unlock)   // POST /api/unlock
}

func (h *RecordHandler) getPublicInfo(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	info, err := h.recordService.PublicInfo(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), recordErrorMessage(err))
		return
	}
	common.RespondWithJSON(w, http.StatusOK, info)
}

type unlockRequest struct {
	UserID string   `json:"userId"`
	Pin    pinValue `json:"pin"`
}

// pinValue accepts the pin as a JSON string or a JSON number.
type pinValue string

func (p *pinValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = pinValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = pinValue(n.String())
	return nil
}

func (h *RecordHandler) unlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxUnlockBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespondWithJSON(w, http.StatusBadRequest, common.UnlockResponse{
			Success: false,
			Error:   msgMalformedUnlock,
		})
		return
	}

	if req.UserID != "" && !h.allowUser(w, r, req.UserID) {
		return
	}

	data, err := h.recordService.Unlock(r.Context(), req.UserID, string(req.Pin))
	if err != nil {
		common.RespondWithJSON(w, common.HTTPStatusFromError(err), common.UnlockResponse{
			Success: false,
			Error:   recordErrorMessage(err),
		})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.UnlockResponse{Success: true, Data: data})
}

// allowUser spends one attempt from the userId budget and answers 429 when it
// is exhausted. Limiter faults let the attempt through.
func (h *RecordHandler) allowUser(w http.ResponseWriter, r *http.Request, userID string) bool {
	if h.userLimiter == nil {
		return true
	}
	allowed, err := h.userLimiter.Allow(r.Context(), "user:"+userID)
	if err != nil {
		h.log.Warn(r.Context(), "rate limiter unavailable", "error", err)
		return true
	}
	if !allowed {
		h.log.Warn(r.Context(), "unlock attempts exhausted", "user_id", userID)
		TooManyUnlocks(w, r)
		return false
	}
	return true
}

const msgMalformedUnlock = "Dados inválidos"

// recordErrorMessage is the text the NFC frontend shows for err. Faults
// without a dedicated text carry the underlying message.
func recordErrorMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrMissingFields):
		return "Faltando dados"
	case errors.Is(err, common.ErrNotFound):
		return "Usuário não encontrado"
	case errors.Is(err, common.ErrInvalidPin):
		return "PIN inválido"
	case errors.Is(err, common.ErrMisconfiguredRecord):
		return "Usuário sem PIN"
	case errors.Is(err, common.ErrTooManyRequest):
		return "Muitas tentativas. Tente novamente mais tarde."
	default:
		return err.Error()
	}
}

// TooManyUnlocks answers a throttled unlock attempt.
func TooManyUnlocks(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusTooManyRequests, common.UnlockResponse{
		Success: false,
		Error:   recordErrorMessage(common.ErrTooManyRequest),
	})
}
