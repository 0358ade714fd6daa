package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/debasish218/pg-manager/middleware"
	"github.com/debasish218/pg-manager/models"
	"github.com/debasish218/pg-manager/services"
	"github.com/debasish218/pg-manager/utils"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

type createRoomRequest struct {
	RoomNumber  int `json:"roomNumber" binding:"required,min=1"`
	SharingType int `json:"sharingType" binding:"required,min=1,max=6"`
	TotalBeds   int `json:"totalBeds" binding:"required,min=1,max=10"`
	RentPerBed  int `json:"rentPerBed" binding:"min=0,max=1000000"`
	Floor       int `json:"floor" binding:"min=0,max=200"`
}

type updateRoomRequest struct {
	RoomNumber  *int `json:"roomNumber" binding:"omitempty,min=1"`
	SharingType *int `json:"sharingType" binding:"omitempty,min=1,max=6"`
	TotalBeds   *int `json:"totalBeds" binding:"omitempty,min=1,max=10"`
	RentPerBed  *int `json:"rentPerBed" binding:"omitempty,min=0,max=1000000"`
	Floor       *int `json:"floor" binding:"omitempty,min=0,max=200"`
}

// ----------------------------------------------------
// GET /api/rooms?search=&sharingType=
// ----------------------------------------------------

func (rc *RoomController) GetRooms(c *gin.Context) {
	sharing, err := queryInt(c, "sharingType")
	if err != nil {
		respondBindError(c, err)
		return
	}
	filter := services.RoomFilter{Search: c.Query("search")}
	if sharing != nil {
		st := models.SharingType(*sharing)
		filter.SharingType = &st
	}

	rooms, err := rc.RoomSvc.List(c.Request.Context(), middleware.AccountID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "rooms retrieved", rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.Get(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "room retrieved", room)
}

// GET /api/rooms/available/:sharingType
func (rc *RoomController) GetAvailableRooms(c *gin.Context) {
	sharing, ok := parseID(c, "sharingType")
	if !ok {
		return
	}
	rooms, err := rc.RoomSvc.Available(c.Request.Context(), middleware.AccountID(c), models.SharingType(sharing))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "available rooms retrieved", rooms)
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := rc.RoomSvc.Create(c.Request.Context(), middleware.AccountID(c), services.CreateRoomInput{
		RoomNumber:  req.RoomNumber,
		SharingType: models.SharingType(req.SharingType),
		TotalBeds:   req.TotalBeds,
		RentPerBed:  req.RentPerBed,
		Floor:       req.Floor,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, "room created", room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	patch := services.RoomPatch{
		RoomNumber: req.RoomNumber,
		TotalBeds:  req.TotalBeds,
		RentPerBed: req.RentPerBed,
		Floor:      req.Floor,
	}
	if req.SharingType != nil {
		st := models.SharingType(*req.SharingType)
		patch.SharingType = &st
	}

	room, err := rc.RoomSvc.Update(c.Request.Context(), middleware.AccountID(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "room updated", room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomSvc.Delete(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, "room deleted", nil)
}

// GET /api/rooms/audit lists rooms whose occupied count disagrees with their
// active tenants. Nothing is repaired.
func (rc *RoomController) AuditOccupancy(c *gin.Context) {
	drift, err := rc.RoomSvc.Audit(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	message := "occupancy consistent"
	if len(drift) > 0 {
		message = "occupancy drift detected"
	}
	utils.JSONSuccess(c, http.StatusOK, message, drift)
}
