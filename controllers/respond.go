package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/debasish218/pg-manager/middleware"
	"github.com/debasish218/pg-manager/services"
	"github.com/debasish218/pg-manager/utils"
)

var domainErrors = []error{
	services.ErrAccountNotFound,
	services.ErrRoomNotFound,
	services.ErrTenantNotFound,
	services.ErrNewRoomNotFound,
	services.ErrCapacityExceeded,
	services.ErrRoomFull,
	services.ErrSharingTypeMismatch,
	services.ErrRoomHasActiveTenants,
	services.ErrDuplicateRoomNumber,
	services.ErrTotalBedsBelowOccupied,
	services.ErrInvalidInput,
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindCapacity, services.KindStateConflict:
		return http.StatusConflict
	case services.KindSharingTypeMismatch, services.KindInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError maps a service error onto the HTTP status and error code the
// API promises. Internal errors are logged and never echoed to the client.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	if kind == services.KindInternal {
		_ = c.Error(err)
		log.Error().Err(err).Str("request_id", middleware.RequestID(c)).Msg("request failed")
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	code := "error"
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			code = target.Error()
			break
		}
	}
	utils.JSONError(c, statusFor(kind), code, err.Error())
}

func respondBindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "invalid_input", err.Error())
}

// parseID reads a positive numeric path parameter, answering 400 itself when
// it is not one.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid_input", "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New("dates must be YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}

func queryInt(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New(key + " must be a number")
	}
	return &n, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New(key + " must be true or false")
	}
	return &b, nil
}
