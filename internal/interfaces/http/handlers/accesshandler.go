package handlers

import (
	"github.com/gin-gonic/gin"

	"prepwise/internal/application/access/usecases"
	"prepwise/internal/interfaces/http/middleware"
	"prepwise/internal/shared/logger"
	"prepwise/internal/shared/utils"
)

type AccessHandler struct {
	getLimitStatusUC  *usecases.GetLimitStatusUseCase
	canAccessTopicUC  *usecases.CanAccessTopicUseCase
	recordTestTakenUC *usecases.RecordTestTakenUseCase
	logger            logger.Interface
}

func NewAccessHandler(
	getLimitStatusUC *usecases.GetLimitStatusUseCase,
	canAccessTopicUC *usecases.CanAccessTopicUseCase,
	recordTestTakenUC *usecases.RecordTestTakenUseCase,
	logger logger.Interface,
) *AccessHandler {
	return &AccessHandler{
		getLimitStatusUC:  getLimitStatusUC,
		canAccessTopicUC:  canAccessTopicUC,
		recordTestTakenUC: recordTestTakenUC,
		logger:            logger,
	}
}

// GetLimitStatus returns the caller's daily test quota. The use case
// already degrades to the free tier on backend failure, so this handler
// never has a degraded branch of its own.
func (h *AccessHandler) GetLimitStatus(c *gin.Context) {
	result, err := h.getLimitStatusUC.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponseWithMeta(c, result.Status, &utils.MetaInfo{
		Source:  result.Source,
		Warning: result.Warning,
	})
}

// CheckTopicAccess reports whether one topic is visible to the caller.
func (h *AccessHandler) CheckTopicAccess(c *gin.Context) {
	result, err := h.canAccessTopicUC.Execute(c.Request.Context(), middleware.UserID(c), c.Param("sid"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// RecordTestTaken consumes one daily test. Quota exhaustion maps to 403
// with the upgrade prompt; entitlement verification failure maps to 503.
func (h *AccessHandler) RecordTestTaken(c *gin.Context) {
	result, err := h.recordTestTakenUC.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result.Status, "test recorded")
}
