package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngcore/auth-api/internal/api/metrics"
	"github.com/ngcore/auth-api/internal/core/domain"
	"github.com/ngcore/auth-api/internal/core/ports"
)

// AccountHandler exposes the registration and login endpoints.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  registerErrorResponse
// @Router       /api/account/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, registerErrorResponse{Errors: []string{"invalid payload"}})
	}
	if err := c.Validate(&req); err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return c.JSON(http.StatusBadRequest, registerErrorResponse{Errors: verrs})
		}
		return c.JSON(http.StatusBadRequest, registerErrorResponse{Errors: []string{err.Error()}})
	}

	result, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
			return c.JSON(http.StatusBadRequest, registerErrorResponse{Errors: verrs})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Username: result.Username,
		Email:    result.Email,
		Status:   1,
		Message:  msgRegistrationOK,
	})
}

// Login authenticates a user and returns a signed bearer token.
//
// Credential mismatches always produce the same 401 body; a 400 with
// errorMessage means the service could not process the request at all.
//
// @Summary      Login
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  systemErrorResponse
// @Failure      401   {object}  loginErrorResponse
// @Failure      429   {object}  systemErrorResponse
// @Router       /api/account/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, systemErrorResponse{ErrorMessage: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, systemErrorResponse{ErrorMessage: "invalid payload"})
	}

	result, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			return c.JSON(http.StatusUnauthorized, loginErrorResponse{LoginError: msgLoginDenied})
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return c.JSON(http.StatusTooManyRequests, systemErrorResponse{ErrorMessage: msgTooManyAttempts})
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			return c.JSON(http.StatusBadRequest, systemErrorResponse{ErrorMessage: msgLoginFailed})
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues(result.Role).Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:      result.Token,
		Expiration: result.ExpiresAt.UTC().Format(time.RFC3339),
		Username:   result.Username,
		UserRole:   result.Role,
	})
}
