package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/shop-backend/internal/apperr"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/repository"
	"github.com/iliyamo/shop-backend/internal/utils"
)

const (
	msgFieldsRequired  = "Todos os campos são obrigatórios."
	msgEmailExists     = "Este email já está registrado."
	msgInvalidLogin    = "Email ou senha inválidos."
	msgUserNotFound    = "Usuário não encontrado."
	msgPasswordTooLong = "A senha deve ter no máximo 72 bytes."
	msgRegisterFailed  = "Erro no servidor ao registrar."
	msgLoginFailed     = "Erro no servidor ao fazer login."
	msgProfileFailed   = "Erro ao buscar perfil."
	msgRegistered      = "Usuário registrado com sucesso!"
	msgLoggedIn        = "Login realizado com sucesso!"
)

// AuthHandler bundles dependencies for the register, login and profile
// endpoints.
type AuthHandler struct {
	Users      repository.UserStore
	Tokens     *utils.TokenIssuer
	BcryptCost int
	Log        zerolog.Logger

	now       func() time.Time
	dummyHash string // compared against when the email is unknown
}

func NewAuthHandler(users repository.UserStore, tokens *utils.TokenIssuer, cost int, log zerolog.Logger) *AuthHandler {
	if users == nil || tokens == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	dummy, err := utils.HashPassword("not-a-real-password", cost)
	if err != nil {
		dummy = ""
	}
	return &AuthHandler{
		Users:      users,
		Tokens:     tokens,
		BcryptCost: cost,
		Log:        log,
		now:        time.Now,
		dummyHash:  dummy,
	}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	Name string `json:"name"`
}

type loginResp struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}

// Register: create user; the client logs in separately to get a token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, h.Log, err, msgFieldsRequired)
	}
	if err := c.Validate(&req); err != nil {
		return invalidRequest(c, h.Log, err, msgFieldsRequired)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.register(ctx, req); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": msgRegistered})
}

func (h *AuthHandler) register(ctx context.Context, req registerReq) error {
	// Fast path; the unique index still decides races between concurrent
	// registrations of the same email.
	switch _, err := h.Users.GetByEmail(ctx, req.Email); {
	case err == nil:
		return apperr.Conflict(msgEmailExists)
	case !errors.Is(err, repository.ErrNotFound):
		return apperr.Internal(msgRegisterFailed, err)
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	switch {
	case errors.Is(err, utils.ErrEmptyPassword):
		return apperr.Validation(msgFieldsRequired)
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return apperr.Validation(msgPasswordTooLong)
	case err != nil:
		return apperr.Internal(msgRegisterFailed, err)
	}

	u, err := model.NewUser(req.Name, req.Email, hash, h.now())
	if err != nil {
		return err
	}
	if _, err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return apperr.Conflict(msgEmailExists)
		}
		return apperr.Internal(msgRegisterFailed, err)
	}
	return nil
}

// Login: verify credentials and issue a session token. Unknown email and
// wrong password produce the same 401 response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.Log, apperr.Authentication(msgInvalidLogin))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn comparable time so response latency does not reveal
			// whether the email exists.
			utils.VerifyPassword(h.dummyHash, req.Password)
			return respondError(c, h.Log, apperr.Authentication(msgInvalidLogin))
		}
		return respondError(c, h.Log, apperr.Internal(msgLoginFailed, err))
	}
	if req.Password == "" || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondError(c, h.Log, apperr.Authentication(msgInvalidLogin))
	}

	tok, err := h.Tokens.Issue(u.ID)
	if err != nil {
		return respondError(c, h.Log, apperr.Internal(msgLoginFailed, err))
	}
	return c.JSON(http.StatusOK, loginResp{
		Message: msgLoggedIn,
		Token:   tok.Token,
		User:    loginUser{Name: u.Name},
	})
}

// Profile returns the authenticated user without the password hash.
func (h *AuthHandler) Profile(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, h.Log, apperr.NotFound(msgUserNotFound))
		}
		return respondError(c, h.Log, apperr.Internal(msgProfileFailed, err))
	}
	return c.JSON(http.StatusOK, u)
}
