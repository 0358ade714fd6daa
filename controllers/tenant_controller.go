package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debasish218/pg-manager/middleware"
	"github.com/debasish218/pg-manager/models"
	"github.com/debasish218/pg-manager/services"
	"github.com/debasish218/pg-manager/utils"
)

type TenantController struct {
	TenantSvc *services.TenantService
}

func NewTenantController(svc *services.TenantService) *TenantController {
	return &TenantController{TenantSvc: svc}
}

type createTenantRequest struct {
	Name          string  `json:"name" binding:"required,max=100"`
	PhoneNumber   string  `json:"phoneNumber" binding:"required,len=10,numeric"`
	SharingType   int     `json:"sharingType" binding:"required,min=1,max=6"`
	RoomID        uint    `json:"roomId" binding:"required"`
	RentAmount    int     `json:"rentAmount" binding:"required,min=1,max=1000000"`
	AdvanceAmount int     `json:"advanceAmount" binding:"min=0,max=1000000"`
	JoinDate      string  `json:"joinDate" binding:"required"`
	LastPaidDate  *string `json:"lastPaidDate"`
	IsActive      *bool   `json:"isActive"`
	DueAmount     int     `json:"dueAmount" binding:"min=-1000000,max=1000000"`
}

type updateTenantRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	PhoneNumber   *string `json:"phoneNumber" binding:"omitempty,len=10,numeric"`
	RentAmount    *int    `json:"rentAmount" binding:"omitempty,min=1,max=1000000"`
	AdvanceAmount *int    `json:"advanceAmount" binding:"omitempty,min=0,max=1000000"`
	LastPaidDate  *string `json:"lastPaidDate"`
	IsActive      *bool   `json:"isActive"`
	RoomID        *uint   `json:"roomId" binding:"omitempty,min=1"`
	DueAmount     *int    `json:"dueAmount" binding:"omitempty,min=-1000000,max=1000000"`
}

type paymentRequest struct {
	PaymentDate string `json:"paymentDate" binding:"required"`
	PaidAmount  int    `json:"paidAmount" binding:"required,min=1"`
}

func optionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ----------------------------------------------------
// GET /api/tenants?search=&sharingType=&isActive=
// ----------------------------------------------------

func (tc *TenantController) GetTenants(c *gin.Context) {
	sharing, err := queryInt(c, "sharingType")
	if err != nil {
		respondBindError(c, err)
		return
	}
	active, err := queryBool(c, "isActive")
	if err != nil {
		respondBindError(c, err)
		return
	}
	filter := services.TenantFilter{Search: c.Query("search"), IsActive: active}
	if sharing != nil {
		st := models.SharingType(*sharing)
		filter.SharingType = &st
	}

	tenants, err := tc.TenantSvc.List(c.Request.Context(), middleware.AccountID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "tenants retrieved", tenants)
}

func (tc *TenantController) GetOverdueTenants(c *gin.Context) {
	tenants, err := tc.TenantSvc.Overdue(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "overdue tenants retrieved", tenants)
}

func (tc *TenantController) GetTenant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tenant, err := tc.TenantSvc.Get(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "tenant retrieved", tenant)
}

func (tc *TenantController) CreateTenant(c *gin.Context) {
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	joined, err := parseDate(req.JoinDate)
	if err != nil {
		respondBindError(c, err)
		return
	}
	lastPaid, err := optionalDate(req.LastPaidDate)
	if err != nil {
		respondBindError(c, err)
		return
	}

	tenant, err := tc.TenantSvc.Create(c.Request.Context(), middleware.AccountID(c), services.CreateTenantInput{
		Name:          req.Name,
		PhoneNumber:   req.PhoneNumber,
		SharingType:   models.SharingType(req.SharingType),
		RoomID:        req.RoomID,
		RentAmount:    req.RentAmount,
		AdvanceAmount: req.AdvanceAmount,
		JoinDate:      joined,
		LastPaidDate:  lastPaid,
		IsActive:      req.IsActive,
		DueAmount:     req.DueAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "tenant created", tenant)
}

func (tc *TenantController) UpdateTenant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	lastPaid, err := optionalDate(req.LastPaidDate)
	if err != nil {
		respondBindError(c, err)
		return
	}

	tenant, err := tc.TenantSvc.Update(c.Request.Context(), middleware.AccountID(c), id, services.TenantPatch{
		Name:          req.Name,
		PhoneNumber:   req.PhoneNumber,
		RentAmount:    req.RentAmount,
		AdvanceAmount: req.AdvanceAmount,
		LastPaidDate:  lastPaid,
		IsActive:      req.IsActive,
		RoomID:        req.RoomID,
		DueAmount:     req.DueAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "tenant updated", tenant)
}

// PUT /api/tenants/:id/payment
func (tc *TenantController) RecordPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	paidOn, err := parseDate(req.PaymentDate)
	if err != nil {
		respondBindError(c, err)
		return
	}

	tenant, err := tc.TenantSvc.RecordPayment(c.Request.Context(), middleware.AccountID(c), id, paidOn, req.PaidAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "payment recorded", tenant)
}

func (tc *TenantController) DeleteTenant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := tc.TenantSvc.Delete(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "tenant deleted", nil)
}
