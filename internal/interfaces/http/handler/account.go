package handler

import (
	identityapp "github.com/crm/backend/internal/application/identity"
	reportapp "github.com/crm/backend/internal/application/report"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles login and staff account endpoints
type AccountHandler struct {
	BaseHandler
	authService    *identityapp.AuthService
	accountService *identityapp.AccountService
	reportService  *reportapp.ReportService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(
	authService *identityapp.AuthService,
	accountService *identityapp.AccountService,
	reportService *reportapp.ReportService,
) *AccountHandler {
	return &AccountHandler{
		authService:    authService,
		accountService: accountService,
		reportService:  reportService,
	}
}

// Login godoc
// @ID           login
// @Summary      Log in
// @Description  Exchanges a username and password for a bearer token. Unknown users and wrong passwords get the same answer.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Credentials"
// @Success      200 {object} identityapp.LoginResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      429 {object} dto.ErrorResponse
// @Router       /account/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Me godoc
// @ID           currentAccount
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Success      200 {object} identityapp.AccountResponse
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /account/me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	account, err := h.accountService.Me(c.Request.Context(), middleware.GetJWTUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// List godoc
// @ID           listAccounts
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Param        search    query string false "Search term"
// @Param        role      query string false "Role filter" Enums(admin, employee)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size"
// @Success      200 {array} identityapp.AccountResponse
// @Header       200 {integer} X-Total-Count "Number of matching accounts"
// @Security     BearerAuth
// @Router       /account [get]
func (h *AccountHandler) List(c *gin.Context) {
	var filter identityapp.AccountListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	accounts, total, err := h.accountService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, accounts, total)
}

// GetByID godoc
// @ID           getAccountById
// @Summary      Get account by ID
// @Tags         accounts
// @Produce      json
// @Param        id path int true "Account ID"
// @Success      200 {object} identityapp.AccountResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /account/{id} [get]
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Create godoc
// @ID           createAccount
// @Summary      Create an account
// @Description  Admin only
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body identityapp.AccountRequest true "Account"
// @Success      201 {object} identityapp.AccountResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /account [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req identityapp.AccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// Update godoc
// @ID           updateAccount
// @Summary      Update an account
// @Description  Admin only. An empty password keeps the current one.
// @Tags         accounts
// @Accept       json
// @Param        id      path int                        true "Account ID"
// @Param        request body identityapp.AccountRequest true "Account"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /account/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req identityapp.AccountRequest
	if !h.BindJSON(c, &req) || !h.CheckIDMismatch(c, id, req.ID) {
		return
	}

	if err := h.accountService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteAccount
// @Summary      Delete an account
// @Description  Admin only
// @Tags         accounts
// @Param        id path int true "Account ID"
// @Success      204
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /account/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Count godoc
// @ID           countAccounts
// @Summary      Number of accounts
// @Tags         accounts
// @Produce      json
// @Success      200 {integer} int
// @Security     BearerAuth
// @Router       /account/count [get]
func (h *AccountHandler) Count(c *gin.Context) {
	n, err := h.reportService.CountAccounts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}
