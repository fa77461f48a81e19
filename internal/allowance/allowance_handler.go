package allowance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	allowanceerrors "go-leaveflow/internal/allowance/errors"
	"go-leaveflow/internal/shared/apperror"
	"go-leaveflow/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("allowance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allowance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("allowance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetBreakdown(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.Param("employeeId")

	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeServiceError(c, allowanceerrors.ErrInvalidYear)
			return
		}
		year = parsed
	}

	resp, err := h.service.GetBreakdown(c.Request.Context(), companyID, employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CreateAdjustment(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")

	var req CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create adjustment validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.CreateAdjustment(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}
