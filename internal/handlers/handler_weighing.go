package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rtmsys/weighbridge_app/internal/apperrors"
	portssvc "github.com/rtmsys/weighbridge_app/internal/core/ports/services"
	"github.com/rtmsys/weighbridge_app/internal/core/scale"
	"github.com/rtmsys/weighbridge_app/internal/dto"
	"github.com/rtmsys/weighbridge_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// weighingHandler handles HTTP requests related to weighing transactions.
// The user service resolves the acting operator's name for slips.
type weighingHandler struct {
	weighingService portssvc.WeighingSvcFacade
	userService     portssvc.UserSvcFacade
	monitor         *scale.Monitor
}

func newWeighingHandler(ws portssvc.WeighingSvcFacade, us portssvc.UserSvcFacade, monitor *scale.Monitor) *weighingHandler {
	return &weighingHandler{weighingService: ws, userService: us, monitor: monitor}
}

// RegisterWeighingRoutes registers routes related to weighing transactions.
func RegisterWeighingRoutes(rg *gin.RouterGroup, weighingService portssvc.WeighingSvcFacade, userService portssvc.UserSvcFacade, monitor *scale.Monitor) {
	h := newWeighingHandler(weighingService, userService, monitor)

	weighings := rg.Group("/weighings")
	{
		weighings.POST("", h.weigh)
		weighings.GET("", h.listWeighings)
		weighings.GET("/next-id", h.nextTransactionID)
		weighings.GET("/:transactionID", h.getWeighing)
		weighings.GET("/:transactionID/slip", h.getSlip)
		weighings.DELETE("/:transactionID", h.deleteWeighing)
	}
}

// weigh performs the open-or-close decision. The weight and stability verdict
// come from the scale monitor, never from the client.
func (h *weighingHandler) weigh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WeighRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for weigh", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snap := h.monitor.Snapshot()
	if !snap.Connected {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scale connection lost. Restart the application to reconnect."})
		return
	}
	req.WeightKg = snap.Kg
	req.Stable = snap.Stable

	result, err := h.weighingService.OpenOrClose(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotStable):
			c.JSON(http.StatusConflict, gin.H{"error": "Weight is unstable. Please wait for the reading to settle."})
		case errors.Is(err, apperrors.ErrNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to process weighing", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save weighing"})
		}
		return
	}

	status := http.StatusOK
	if result.Opened {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// listWeighings lists transactions by first-weigh date range, newest first.
// Defaults to today when no range is given, matching the console's history table.
func (h *weighingHandler) listWeighings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListWeighingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	today := time.Now()
	from, to := today, today
	var err error
	if params.From != "" {
		if from, err = time.ParseInLocation(dateLayout, params.From, time.Local); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date, expected YYYY-MM-DD"})
			return
		}
	}
	if params.To != "" {
		if to, err = time.ParseInLocation(dateLayout, params.To, time.Local); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date, expected YYYY-MM-DD"})
			return
		}
	}

	txns, err := h.weighingService.ListByDateRange(c.Request.Context(), from, to, params.GoodsType)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list weighings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list weighings"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListWeighingsResponse(txns))
}

func (h *weighingHandler) nextTransactionID(c *gin.Context) {
	id, err := h.weighingService.NextTransactionID(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to preview next transaction id", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute next transaction ID"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextTransactionID": id})
}

func (h *weighingHandler) getWeighing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.weighingService.GetByID(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get weighing", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *weighingHandler) deleteWeighing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	if err := h.weighingService.DeleteByID(c.Request.Context(), transactionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to delete weighing", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
