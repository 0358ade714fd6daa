package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/debasish218/pg-manager/middleware"
	"github.com/debasish218/pg-manager/services"
	"github.com/debasish218/pg-manager/utils"
)

type AccountController struct {
	AccountSvc *services.AccountService
}

func NewAccountController(svc *services.AccountService) *AccountController {
	return &AccountController{AccountSvc: svc}
}

func (ac *AccountController) GetAccount(c *gin.Context) {
	account, err := ac.AccountSvc.Get(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "account retrieved", account)
}

type updateProfileRequest struct {
	PgName string  `json:"pgName" binding:"required,max=150"`
	Name   *string `json:"name" binding:"omitempty,max=100"`
}

// PUT /api/account
func (ac *AccountController) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	account, err := ac.AccountSvc.UpdateProfile(c.Request.Context(), middleware.AccountID(c), req.Name, req.PgName)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "profile updated", account)
}

// DeleteAccount removes the caller's account with all of its rooms and tenants.
func (ac *AccountController) DeleteAccount(c *gin.Context) {
	if err := ac.AccountSvc.Delete(c.Request.Context(), middleware.AccountID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "account deleted", nil)
}
