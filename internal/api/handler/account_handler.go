package handler

import (
	"errors"
	"net/http"

	"projeto_nfc/internal/app/service"
	"projeto_nfc/internal/common"
	"projeto_nfc/internal/platform/flash"
	"projeto_nfc/internal/platform/logging"
	"projeto_nfc/internal/platform/session"

	"github.com/go-chi/chi/v5"
)

const maxFormBody = 64 << 10

const (
	msgRegistered     = "Sua conta foi criada com sucesso! Faça o login."
	msgRegisterFields = "Preencha nome de usuário, e-mail e senha."
	msgRegisterTaken  = "Nome de usuário ou e-mail já cadastrado."
	msgLoggedIn       = "Login realizado com sucesso!"
	msgLoginFailed    = "Login falhou. Verifique seu e-mail e senha."
	msgLoginRequired  = "Por favor, faça login para acessar esta página."
	msgLoggedOut      = "Você saiu da sua conta."
	msgTooManyLogins  = "Muitas tentativas de login. Aguarde e tente novamente."
	msgServerFault    = "Ocorreu um erro inesperado. Tente novamente mais tarde."
)

type AccountHandler struct {
	accountService *service.AccountService
	sessions       session.Store
	pages          *Pages
	secureCookies  bool
	log            logging.Logger
}

func NewAccountHandler(as *service.AccountService, sessions session.Store, pages *Pages, secureCookies bool, log logging.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: as,
		sessions:       sessions,
		pages:          pages,
		secureCookies:  secureCookies,
		log:            log,
	}
}

// RegisterRoutes expects middleware.LoadSession to run before these routes.
// loginMW wraps only POST /login.
func (h *AccountHandler) RegisterRoutes(r chi.Router, loginMW ...func(http.Handler) http.Handler) {
	r.Get("/", h.index)
	r.Get("/register", h.registerForm)
	r.Post("/register", h.register)
	r.Get("/login", h.loginForm)
	r.With(loginMW...).Post("/login", h.login)
	r.Get("/dashboard", h.dashboard)
	r.Get("/logout", h.logout)
}

func (h *AccountHandler) index(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, pageIndex, pageData{Title: "Início"}, nil)
}

func (h *AccountHandler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, pageRegister, pageData{Title: "Cadastro"}, nil)
}

func (h *AccountHandler) register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		h.show(w, r, http.StatusBadRequest, pageRegister, pageData{Title: "Cadastro"}, danger(msgRegisterFields))
		return
	}

	req := service.RegisterRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	data := pageData{Title: "Cadastro", Form: formValues{Username: req.Username, Email: req.Email}}

	if _, err := h.accountService.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, common.ErrBadRequest):
			h.show(w, r, http.StatusBadRequest, pageRegister, data, danger(msgRegisterFields))
		case errors.Is(err, common.ErrConflict):
			h.show(w, r, http.StatusConflict, pageRegister, data, danger(msgRegisterTaken))
		default:
			h.show(w, r, http.StatusInternalServerError, pageRegister, data, danger(msgServerFault))
		}
		return
	}

	flash.Write(w, flash.Success(msgRegistered), h.secureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AccountHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, pageLogin, pageData{Title: "Login"}, nil)
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		h.show(w, r, http.StatusUnauthorized, pageLogin, pageData{Title: "Login"}, danger(msgLoginFailed))
		return
	}

	email := r.PostFormValue("email")
	data := pageData{Title: "Login", Form: formValues{Email: email}}

	account, err := h.accountService.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			h.show(w, r, http.StatusUnauthorized, pageLogin, data, danger(msgLoginFailed))
			return
		}
		h.show(w, r, http.StatusInternalServerError, pageLogin, data, danger(msgServerFault))
		return
	}

	if err := h.sessions.Save(w, r, session.ForAccount(account.ID)); err != nil {
		h.log.Error(r.Context(), "save session failed", "account_id", account.ID, "error", err)
		h.show(w, r, http.StatusInternalServerError, pageLogin, data, danger(msgServerFault))
		return
	}

	flash.Write(w, flash.Success(msgLoggedIn), h.secureCookies)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// TooManyLogins answers a throttled login attempt.
func (h *AccountHandler) TooManyLogins(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusTooManyRequests, pageLogin, pageData{Title: "Login"}, danger(msgTooManyLogins))
}

func (h *AccountHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if !sess.Authenticated() {
		h.redirectToLogin(w, r)
		return
	}

	account, err := h.accountService.Account(r.Context(), *sess.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// The account behind this session is gone.
			if err := h.sessions.Destroy(w, r); err != nil {
				h.log.Error(r.Context(), "destroy session failed", "error", err)
			}
			h.redirectToLogin(w, r)
			return
		}
		h.show(w, r, http.StatusInternalServerError, pageIndex, pageData{Title: "Início"}, danger(msgServerFault))
		return
	}

	h.show(w, r, http.StatusOK, pageDashboard, pageData{Title: "Painel", Account: account}, nil)
}

func (h *AccountHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		h.log.Error(r.Context(), "destroy session failed", "error", err)
	}
	flash.Write(w, flash.Info(msgLoggedOut), h.secureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AccountHandler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	flash.Write(w, flash.Warning(msgLoginRequired), h.secureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// show renders a page. A pending flash cookie is always consumed; inline wins
// over it when both are present.
func (h *AccountHandler) show(w http.ResponseWriter, r *http.Request, status int, page string, data pageData, inline *flash.Message) {
	pending, ok := flash.ReadAndClear(w, r, h.secureCookies)
	switch {
	case inline != nil:
		data.Flash = inline
	case ok:
		data.Flash = &pending
	}
	data.SignedIn = session.FromContext(r.Context()).Authenticated()

	if err := h.pages.render(w, status, page, data); err != nil {
		h.log.Error(r.Context(), "render page failed", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func danger(text string) *flash.Message {
	msg := flash.Danger(text)
	return &msg
}
