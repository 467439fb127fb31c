package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	catalogdto "prepwise/internal/application/catalog/dto"
	"prepwise/internal/application/catalog/usecases"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/interfaces/http/middleware"
	"prepwise/internal/shared/logger"
	"prepwise/internal/shared/utils"
)

type CatalogHandler struct {
	listSubjectsUC *usecases.ListSubjectsUseCase
	listTopicsUC   *usecases.ListTopicsUseCase
	getMasteryUC   *usecases.GetMasteryUseCase
	logger         logger.Interface
}

func NewCatalogHandler(
	listSubjectsUC *usecases.ListSubjectsUseCase,
	listTopicsUC *usecases.ListTopicsUseCase,
	getMasteryUC *usecases.GetMasteryUseCase,
	logger logger.Interface,
) *CatalogHandler {
	return &CatalogHandler{
		listSubjectsUC: listSubjectsUC,
		listTopicsUC:   listTopicsUC,
		getMasteryUC:   getMasteryUC,
		logger:         logger,
	}
}

// ListSubjects returns the active subject catalog. Degrades to an empty
// list when the backend is unreachable with nothing cached.
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	result, err := h.listSubjectsUC.Execute(c.Request.Context())
	if err != nil {
		var unavailable *cache.BackendUnavailableError
		if stderrors.As(err, &unavailable) {
			utils.DegradedResponse(c, []catalogdto.SubjectDTO{}, "subjects are temporarily unavailable")
			return
		}
		h.logger.Errorw("failed to list subjects", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponseWithMeta(c, result.Data, &utils.MetaInfo{
		Source:  string(result.Source),
		Warning: result.Warning,
	})
}

// ListTopics returns a subject's topics with per-user locked flags.
func (h *CatalogHandler) ListTopics(c *gin.Context) {
	subjectSID := c.Param("sid")
	userID := middleware.UserID(c)

	result, err := h.listTopicsUC.Execute(c.Request.Context(), userID, subjectSID)
	if err != nil {
		var unavailable *cache.BackendUnavailableError
		if stderrors.As(err, &unavailable) {
			utils.DegradedResponse(c, []catalogdto.TopicDTO{}, "topics are temporarily unavailable")
			return
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponseWithMeta(c, result.Data, &utils.MetaInfo{
		Source:  string(result.Source),
		Warning: result.Warning,
	})
}

// GetMastery returns the caller's mastery aggregate for one subject.
// Degrades to an all-zero aggregate when the backend is unreachable.
func (h *CatalogHandler) GetMastery(c *gin.Context) {
	subjectSID := c.Param("sid")
	userID := middleware.UserID(c)

	result, err := h.getMasteryUC.Execute(c.Request.Context(), userID, subjectSID)
	if err != nil {
		var unavailable *cache.BackendUnavailableError
		if stderrors.As(err, &unavailable) {
			utils.DegradedResponse(c, catalogdto.MasteryDTO{SubjectSID: subjectSID},
				"mastery data is temporarily unavailable")
			return
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponseWithMeta(c, result.Data, &utils.MetaInfo{
		Source:  string(result.Source),
		Warning: result.Warning,
	})
}
