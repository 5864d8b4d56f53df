package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corebank-posting-ledger/internal/api_gateway/service"
	"github.com/corebank-posting-ledger/internal/domain/account"
)

// AccountHandler handles HTTP requests for chart-of-accounts administration
type AccountHandler struct {
	accountService service.AccountAdminService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountAdminService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create registers a new ledger account, returns 409 if the code is taken
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.Code, req.Name, req.Category)
	if err != nil {
		if errors.Is(err, account.ErrAccountExists{}) {
			RespondConflict(c, err.Error())
			return
		}
		if errors.Is(err, account.ErrEmptyCode) || errors.Is(err, account.ErrEmptyName) || errors.Is(err, account.ErrInvalidCategory) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create account", "code", req.Code, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByCode retrieves account details, returns 404 if not found
func (h *AccountHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")

	acc, err := h.accountService.GetAccount(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "code", code, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// List returns the full chart of accounts ordered by code
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc))
	}

	RespondOK(c, responses)
}

// Activate re-enables an account for posting
func (h *AccountHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate blocks an account from further posting. Existing entries are
// untouched; deactivation is not deletion.
func (h *AccountHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AccountHandler) setActive(c *gin.Context, active bool) {
	code := c.Param("code")

	acc, err := h.accountService.SetAccountActive(c.Request.Context(), code, active)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to update account", "code", code, "active", active, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// mapAccountToResponse maps a domain account to its API representation
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:        acc.ID.String(),
		Code:      acc.Code,
		Name:      acc.Name,
		Category:  string(acc.Category),
		Active:    acc.Active,
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: acc.UpdatedAt.Format(time.RFC3339),
	}
}
