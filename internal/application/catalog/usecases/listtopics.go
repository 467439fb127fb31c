package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	accessusecases "prepwise/internal/application/access/usecases"
	"prepwise/internal/application/catalog/dto"
	"prepwise/internal/domain/catalog"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/config"
	"prepwise/internal/shared/errors"
	"prepwise/internal/shared/logger"
)

// topicSnap carries enough of a topic through the cache to rebuild the
// domain entity for gating on the way out.
type topicSnap struct {
	ID        uint   `json:"id"`
	SID       string `json:"sid"`
	SubjectID uint   `json:"subject_id"`
	ParentID  *uint  `json:"parent_id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// ListTopicsUseCase returns a subject's active topics with per-user
// locked flags. The topic list is cached once per subject; the lock
// computation runs per request against the caller's entitlements.
type ListTopicsUseCase struct {
	subjectRepo catalog.SubjectRepository
	topicRepo   catalog.TopicRepository
	ents        *accessusecases.EntitlementService
	reader      *cache.FallbackReader
	quota       config.QuotaConfig
	logger      logger.Interface
}

func NewListTopicsUseCase(
	subjectRepo catalog.SubjectRepository,
	topicRepo catalog.TopicRepository,
	ents *accessusecases.EntitlementService,
	reader *cache.FallbackReader,
	quota config.QuotaConfig,
	logger logger.Interface,
) *ListTopicsUseCase {
	return &ListTopicsUseCase{
		subjectRepo: subjectRepo,
		topicRepo:   topicRepo,
		ents:        ents,
		reader:      reader,
		quota:       quota,
		logger:      logger,
	}
}

func (uc *ListTopicsUseCase) Execute(ctx context.Context, userID, subjectSID string) (cache.Result[[]dto.TopicDTO], error) {
	var zero cache.Result[[]dto.TopicDTO]

	if subjectSID == "" {
		return zero, errors.NewValidationError("subject SID is required")
	}

	subjectID, err := uc.resolveSubjectID(ctx, subjectSID)
	if err != nil {
		return zero, err
	}

	snapResult, err := uc.subjectTopics(ctx, subjectID)
	if err != nil {
		return zero, err
	}

	maxTopics, err := uc.topicCap(ctx, userID)
	if err != nil {
		return zero, err
	}

	topics := make([]*catalog.Topic, 0, len(snapResult.Data))
	bySID := make(map[uint]string, len(snapResult.Data))
	for _, snap := range snapResult.Data {
		topic, err := catalog.ReconstructTopic(snap.ID, snap.SID, snap.SubjectID, snap.ParentID,
			snap.Name, true, snap.SortOrder, time.Time{}, time.Time{})
		if err != nil {
			return zero, fmt.Errorf("failed to rebuild topic %d: %w", snap.ID, err)
		}
		topics = append(topics, topic)
		bySID[snap.ID] = snap.SID
	}

	dtos := make([]dto.TopicDTO, 0, len(topics))
	for _, topic := range topics {
		rootID := topic.ID()
		if topic.ParentID() != nil {
			rootID = *topic.ParentID()
		}
		index := catalog.FreeTierIndex(topics, rootID)

		locked := false
		if maxTopics != nil {
			locked = index < 0 || index >= *maxTopics
		}

		var parentSID *string
		if topic.ParentID() != nil {
			if sid, ok := bySID[*topic.ParentID()]; ok {
				parentSID = &sid
			}
		}

		dtos = append(dtos, dto.TopicDTO{
			SID:       topic.SID(),
			ParentSID: parentSID,
			Name:      topic.Name(),
			SortOrder: topic.SortOrder(),
			Locked:    locked,
		})
	}

	return cache.Result[[]dto.TopicDTO]{
		Data:    dtos,
		Source:  snapResult.Source,
		Warning: snapResult.Warning,
	}, nil
}

// topicCap degrades to the configured free tier on backend failure:
// visibility is read-only, so showing the free-tier view beats an error
// page. Anonymous callers get the free-tier view as well.
func (uc *ListTopicsUseCase) topicCap(ctx context.Context, userID string) (*int, error) {
	freeCap := uc.quota.FreeMaxTopicsPerSubject
	if userID == "" {
		return &freeCap, nil
	}

	result, err := uc.ents.Snapshot(ctx, userID)
	if err != nil {
		var unavailable *cache.BackendUnavailableError
		if stderrors.As(err, &unavailable) {
			uc.logger.Warnw("topic list degraded to free tier", "user_id", userID, "error", err)
			return &freeCap, nil
		}
		return nil, fmt.Errorf("failed to load entitlement snapshot: %w", err)
	}
	return uc.ents.TopicCap(result.Data), nil
}

func (uc *ListTopicsUseCase) resolveSubjectID(ctx context.Context, subjectSID string) (uint, error) {
	ttl := time.Duration(uc.quota.ReferenceTTLSeconds) * time.Second
	key := fmt.Sprintf("subject:sid:%s", subjectSID)

	result, err := cache.Read(ctx, uc.reader, key, ttl, func(ctx context.Context) (uint, error) {
		subject, err := uc.subjectRepo.GetBySID(ctx, subjectSID)
		if err != nil {
			return 0, err
		}
		if subject == nil {
			return 0, errors.NewNotFoundError("subject not found", subjectSID)
		}
		return subject.ID(), nil
	}, nil)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			return 0, appErr
		}
		return 0, fmt.Errorf("failed to resolve subject %s: %w", subjectSID, err)
	}
	return result.Data, nil
}

func (uc *ListTopicsUseCase) subjectTopics(ctx context.Context, subjectID uint) (cache.Result[[]topicSnap], error) {
	ttl := time.Duration(uc.quota.ReferenceTTLSeconds) * time.Second
	key := fmt.Sprintf("subject:%d:alltopics", subjectID)

	result, err := cache.Read(ctx, uc.reader, key, ttl, func(ctx context.Context) ([]topicSnap, error) {
		topics, err := uc.topicRepo.GetActiveBySubjectID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		snaps := make([]topicSnap, 0, len(topics))
		for _, topic := range topics {
			snaps = append(snaps, topicSnap{
				ID:        topic.ID(),
				SID:       topic.SID(),
				SubjectID: topic.SubjectID(),
				ParentID:  topic.ParentID(),
				Name:      topic.Name(),
				SortOrder: topic.SortOrder(),
			})
		}
		return snaps, nil
	}, nil)
	if err != nil {
		return result, fmt.Errorf("failed to list topics for subject %d: %w", subjectID, err)
	}
	return result, nil
}
