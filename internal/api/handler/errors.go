package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/dispatch"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/response"
)

var notFoundErrors = []error{
	service.ErrTabNotFound,
	dispatch.ErrOfficerNotFound,
	dispatch.ErrVehicleNotOnGrid,
	dispatch.ErrVehicleNotInFleet,
	dispatch.ErrMailNotFound,
	dispatch.ErrTrainingNotFound,
	service.ErrExportNoLogs,
}

var conflictErrors = []error{
	dispatch.ErrOfficerExists,
	dispatch.ErrVehicleExists,
	dispatch.ErrVehicleAlreadyOnGrid,
	dispatch.ErrUsernameTaken,
	dispatch.ErrAlreadyClockedIn,
	dispatch.ErrNotClockedIn,
	service.ErrAlertNotActive,
}

var badRequestErrors = []error{
	dispatch.ErrSeatOutOfRange,
	dispatch.ErrInvalidOfficer,
	dispatch.ErrUnknownRank,
	dispatch.ErrUnknownHeaderRole,
	dispatch.ErrInvalidVehicle,
	dispatch.ErrInvalidCapacity,
	dispatch.ErrUnknownCategory,
	dispatch.ErrUnknownStatus,
	dispatch.ErrInvalidCredential,
	service.ErrImportNoData,
	service.ErrImportTooManyRows,
	service.ErrImportBadHeader,
}

// handleError 将业务错误映射为统一响应
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, response.CodeInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrNotLoggedIn):
		response.Unauthorized(c, response.CodeUnauthenticated, err.Error())
	case matches(err, notFoundErrors):
		response.NotFound(c, response.CodeNotFound, err.Error())
	case matches(err, conflictErrors):
		response.Conflict(c, response.CodeConflict, err.Error())
	case matches(err, badRequestErrors):
		response.BadRequest(c, response.CodeBadRequest, err.Error())
	default:
		c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "服务器内部错误")
	}
}

func matches(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// bindJSON 绑定请求体；失败时写入 400 并返回 false
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
			return false
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeBadRequest, "参数校验失败", err.Error())
		return false
	}
	return true
}
