package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto-tracker/internal/auth"
	"resto-tracker/internal/models"
	"resto-tracker/internal/services"
)

// AuthController handles login, registration, password changes and the
// role access-code predicates.
type AuthController interface {
	Login(c *gin.Context)
	AdminLogin(c *gin.Context)
	Register(c *gin.Context)
	ChangePassword(c *gin.Context)
	VerifyAccess(c *gin.Context)
	ChangeAdminAccessCode(c *gin.Context)
}

type authController struct {
	accounts  services.AccountService
	jwtSecret string
}

// NewAuthController creates a new instance of AuthController
func NewAuthController(accounts services.AccountService, jwtSecret string) AuthController {
	return &authController{accounts: accounts, jwtSecret: jwtSecret}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type accessCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type tokenResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"type"`
	Account   *models.Account `json:"account"`
}

// Login godoc
// @Summary Log in with username and password
// @Description Verify credentials and issue a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Router /api/v1/auth/login [post]
func (a *authController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	account, err := a.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if account == nil {
		ctx.JSON(http.StatusUnauthorized, models.NewAPIError("UNAUTHORIZED", "Wrong username or password"))
		return
	}
	a.issueToken(ctx, account)
}

// AdminLogin godoc
// @Summary Log in as the admin
// @Description The admin account is unique, so admin login takes only the password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body adminLoginRequest true "Admin password"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Router /api/v1/auth/admin-login [post]
func (a *authController) AdminLogin(ctx *gin.Context) {
	var req adminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	account, err := a.accounts.AuthenticateAdmin(req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if account == nil {
		ctx.JSON(http.StatusUnauthorized, models.NewAPIError("UNAUTHORIZED", "Wrong admin password"))
		return
	}
	a.issueToken(ctx, account)
}

// Register godoc
// @Summary Register a new user account
// @Description Self-registration always creates a plain user; admins are never created here
// @Tags auth
// @Accept json
// @Produce json
// @Param account body registerRequest true "New account"
// @Success 201 {object} models.Account
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Router /api/v1/auth/register [post]
func (a *authController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	account, err := a.accounts.CreateAccount(req.Username, req.Password, models.RoleUser)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, account)
}

// ChangePassword godoc
// @Summary Change the current account's password
// @Tags auth
// @Accept json
// @Produce json
// @Param passwords body changePasswordRequest true "Old and new password"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/auth/password [put]
func (a *authController) ChangePassword(ctx *gin.Context) {
	var req changePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	if err := a.accounts.ChangePassword(requesterID(ctx), req.OldPassword, req.NewPassword); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

// VerifyAccess godoc
// @Summary Verify a role access code
// @Description Independent predicate per gated role (admin, chef, courier); composing the two-step gate is the caller's job
// @Tags access
// @Accept json
// @Produce json
// @Param role path string true "Gated role" Enums(admin, chef, courier)
// @Param code body accessCodeRequest true "Access code"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} models.APIError
// @Router /api/v1/access/{role}/verify [post]
func (a *authController) VerifyAccess(ctx *gin.Context) {
	var req accessCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	ok, err := a.accounts.VerifyAccessCode(ctx.Param("role"), req.Code)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"valid": ok})
}

// ChangeAdminAccessCode godoc
// @Summary Replace the admin area access code
// @Tags access
// @Accept json
// @Produce json
// @Param code body accessCodeRequest true "New access code"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/access/admin [put]
func (a *authController) ChangeAdminAccessCode(ctx *gin.Context) {
	var req accessCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	if err := a.accounts.ChangeAdminAccessCode(requesterRole(ctx), req.Code); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}

func (a *authController) issueToken(ctx *gin.Context, account *models.Account) {
	token, err := auth.GenerateToken(account, a.jwtSecret)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tokenResponse{Token: token, TokenType: "Bearer", Account: account})
}
