package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/nest-ms-kv/payments-microservice/internal/shared/errors"
)

// Handler exposes checkout session creation over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new payment handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the payment routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/session", h.CreateSession)
}

// CreateSession handles POST /payments/session.
func (h *Handler) CreateSession(c *gin.Context) {
	var req PaymentSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.Validation(err.Error())
		c.JSON(appErr.StatusCode, apperrors.ToResponse(appErr))
		return
	}

	result, err := h.service.CreatePaymentSession(c.Request.Context(), &req)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), apperrors.ToResponse(err))
		return
	}

	c.JSON(http.StatusOK, result)
}
