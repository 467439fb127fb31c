package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"prepwise/internal/application/access/dto"
	"prepwise/internal/domain/catalog"
	"prepwise/internal/infrastructure/cache"
	"prepwise/internal/shared/config"
	"prepwise/internal/shared/errors"
	"prepwise/internal/shared/logger"
)

// CanAccessTopicUseCase decides free-tier topic visibility. A topic is
// visible when its root's 0-based position among the subject's active
// root topics (ordered by topic ID ascending) is below the plan's
// per-subject cap; child topics inherit their root's visibility.
// Read-only: backend failure degrades to the free-tier cap.
type CanAccessTopicUseCase struct {
	ents      *EntitlementService
	topicRepo catalog.TopicRepository
	reader    *cache.FallbackReader
	quota     config.QuotaConfig
	logger    logger.Interface
}

func NewCanAccessTopicUseCase(
	ents *EntitlementService,
	topicRepo catalog.TopicRepository,
	reader *cache.FallbackReader,
	quota config.QuotaConfig,
	logger logger.Interface,
) *CanAccessTopicUseCase {
	return &CanAccessTopicUseCase{
		ents:      ents,
		topicRepo: topicRepo,
		reader:    reader,
		quota:     quota,
		logger:    logger,
	}
}

// ExecuteAtIndex gates by a precomputed root-topic index. A negative
// index means the topic is not an active root topic and is never
// accessible through gating.
func (uc *CanAccessTopicUseCase) ExecuteAtIndex(ctx context.Context, userID string, topicIndex int) (bool, error) {
	allowed, _, err := uc.gateIndex(ctx, userID, topicIndex)
	return allowed, err
}

// gateIndex applies the cap and reports whether the answer came from the
// degraded free-tier fallback.
func (uc *CanAccessTopicUseCase) gateIndex(ctx context.Context, userID string, topicIndex int) (bool, bool, error) {
	if userID == "" {
		return false, false, errors.NewValidationError("user ID is required")
	}
	if topicIndex < 0 {
		return false, false, nil
	}

	maxTopics, degraded, err := uc.topicCap(ctx, userID)
	if err != nil {
		return false, false, err
	}
	if degraded {
		uc.logger.Warnw("topic access degraded to free tier", "user_id", userID)
	}
	if maxTopics == nil {
		return true, degraded, nil
	}
	return topicIndex < *maxTopics, degraded, nil
}

// Execute resolves a topic by its public identifier and gates it.
func (uc *CanAccessTopicUseCase) Execute(ctx context.Context, userID, topicSID string) (*dto.TopicAccessResult, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user ID is required")
	}
	if topicSID == "" {
		return nil, errors.NewValidationError("topic SID is required")
	}

	topic, err := uc.resolveTopic(ctx, topicSID)
	if err != nil {
		return nil, err
	}

	rootID := topic.ID
	if topic.ParentID != nil {
		rootID = *topic.ParentID
	}

	index, err := uc.rootTopicIndex(ctx, topic.SubjectID, rootID)
	if err != nil {
		return nil, err
	}

	allowed, degraded, err := uc.gateIndex(ctx, userID, index)
	if err != nil {
		return nil, err
	}

	return &dto.TopicAccessResult{
		Allowed:  allowed,
		TopicSID: topicSID,
		Degraded: degraded,
	}, nil
}

// topicCap returns the per-subject visibility cap, degrading to the
// configured free tier when the backend is unreachable.
func (uc *CanAccessTopicUseCase) topicCap(ctx context.Context, userID string) (*int, bool, error) {
	result, err := uc.ents.Snapshot(ctx, userID)
	if err != nil {
		var unavailable *cache.BackendUnavailableError
		if stderrors.As(err, &unavailable) {
			freeCap := uc.quota.FreeMaxTopicsPerSubject
			return &freeCap, true, nil
		}
		return nil, false, fmt.Errorf("failed to load entitlement snapshot: %w", err)
	}
	return uc.ents.TopicCap(result.Data), false, nil
}

func (uc *CanAccessTopicUseCase) resolveTopic(ctx context.Context, topicSID string) (dto.TopicRef, error) {
	ttl := time.Duration(uc.quota.ReferenceTTLSeconds) * time.Second

	result, err := cache.Read(ctx, uc.reader, dto.TopicKey(topicSID), ttl, func(ctx context.Context) (dto.TopicRef, error) {
		topic, err := uc.topicRepo.GetBySID(ctx, topicSID)
		if err != nil {
			return dto.TopicRef{}, err
		}
		if topic == nil {
			return dto.TopicRef{}, errors.NewNotFoundError("topic not found", topicSID)
		}
		return dto.TopicRef{
			ID:        topic.ID(),
			SID:       topic.SID(),
			SubjectID: topic.SubjectID(),
			ParentID:  topic.ParentID(),
			Name:      topic.Name(),
		}, nil
	}, nil)
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil {
			return dto.TopicRef{}, appErr
		}
		return dto.TopicRef{}, fmt.Errorf("failed to resolve topic %s: %w", topicSID, err)
	}
	return result.Data, nil
}

// rootTopicIndex finds rootID's position in the subject's cached root
// list. The repository orders by id ASC and the cache preserves slice
// order, so list position equals the gating index.
func (uc *CanAccessTopicUseCase) rootTopicIndex(ctx context.Context, subjectID, rootID uint) (int, error) {
	refs, err := uc.rootTopics(ctx, subjectID)
	if err != nil {
		return -1, err
	}
	for i, ref := range refs {
		if ref.ID == rootID {
			return i, nil
		}
	}
	return -1, nil
}

func (uc *CanAccessTopicUseCase) rootTopics(ctx context.Context, subjectID uint) ([]dto.TopicRef, error) {
	ttl := time.Duration(uc.quota.ReferenceTTLSeconds) * time.Second

	result, err := cache.Read(ctx, uc.reader, dto.RootTopicsKey(subjectID), ttl, func(ctx context.Context) ([]dto.TopicRef, error) {
		topics, err := uc.topicRepo.GetRootActiveBySubjectID(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		refs := make([]dto.TopicRef, 0, len(topics))
		for _, topic := range topics {
			refs = append(refs, dto.TopicRef{
				ID:        topic.ID(),
				SID:       topic.SID(),
				SubjectID: topic.SubjectID(),
				ParentID:  topic.ParentID(),
				Name:      topic.Name(),
			})
		}
		return refs, nil
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list root topics for subject %d: %w", subjectID, err)
	}
	return result.Data, nil
}
