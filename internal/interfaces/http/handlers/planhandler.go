package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	subdto "prepwise/internal/application/subscription/dto"
	"prepwise/internal/application/subscription/usecases"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/logger"
	"prepwise/internal/shared/utils"
)

type PlanHandler struct {
	getPublicPlansUC *usecases.GetPublicPlansUseCase
	logger           logger.Interface
}

func NewPlanHandler(getPublicPlansUC *usecases.GetPublicPlansUseCase, logger logger.Interface) *PlanHandler {
	return &PlanHandler{
		getPublicPlansUC: getPublicPlansUC,
		logger:           logger,
	}
}

// GetPublicPlans returns the purchasable plan catalog. When the backend
// is unreachable and nothing is cached, the degraded default is an empty
// list rather than an error page.
func (h *PlanHandler) GetPublicPlans(c *gin.Context) {
	result, err := h.getPublicPlansUC.Execute(c.Request.Context())
	if err != nil {
		var unavailable *cache.BackendUnavailableError
		if stderrors.As(err, &unavailable) {
			utils.DegradedResponse(c, []subdto.PlanDTO{}, "plans are temporarily unavailable")
			return
		}
		h.logger.Errorw("failed to get public plans", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponseWithMeta(c, result.Data, &utils.MetaInfo{
		Source:  string(result.Source),
		Warning: result.Warning,
	})
}
