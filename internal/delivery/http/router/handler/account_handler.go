package handler

import (
	"log/slog"
	"net/http"

	"adaptiv/internal/delivery/http/response"
	"adaptiv/internal/domain/entity"
	"adaptiv/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account management handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, logger: logger}
}

type provisionAccountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=patient clinician admin"`
}

// ProvisionAccount handles admin-driven account provisioning.
func (h *AccountHandler) ProvisionAccount(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	var req provisionAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid provisioning input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.ProvisionAccount(c.Request().Context(), ident, &usecase.ProvisionAccountInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     entity.RoleFromString(req.Role),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAccountJSON(output.Account), "Account provisioned successfully")
}

// DeactivateAccount handles admin-driven account deactivation.
func (h *AccountHandler) DeactivateAccount(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	accountID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeactivateAccount(c.Request().Context(), ident, accountID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"id": accountID.String()}, "Account deactivated")
}

// GetProfile returns the caller's own account.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	output, err := h.uc.GetProfile(c.Request().Context(), ident)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountJSON(output.Account), "Profile retrieved successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
