package callmonitoring

import (
	"context"
	"encoding/json"
	"time"

	"studio_backend/platform/logger"
	"studio_backend/platform/phone"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const analyticsCacheKey = "callmonitoring:analytics"

// Store is the persistence port for call logs.
type Store interface {
	Create(ctx context.Context, c *CallLog) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	StatsBetween(ctx context.Context, from, to time.Time) (*BucketStats, error)
}

// Service provides business logic for call monitoring. The analytics
// aggregation is cached in redis for a short TTL because the dashboard
// polls it aggressively.
type Service struct {
	store    Store
	cache    *redis.Client // optional, nil disables caching
	cacheTTL time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new call monitoring service.
func NewService(store Store, cache *redis.Client, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
		now:      time.Now,
	}
}

// LogCall records a call made or received by the given employee.
func (s *Service) LogCall(ctx context.Context, employeeID uuid.UUID, req LogCallRequest) (*CallResponse, error) {
	call := &CallLog{
		ID:              uuid.New(),
		ClientName:      req.ClientName,
		ClientPhone:     phone.NormalizeE164(req.ClientPhone),
		EmployeeID:      employeeID,
		CallType:        req.CallType,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
		CreatedAt:       s.now(),
	}

	if err := s.store.Create(ctx, call); err != nil {
		return nil, err
	}

	s.invalidateAnalytics(ctx)

	resp := toCallResponse(call)
	return &resp, nil
}

// List retrieves call logs with filtering and pagination.
func (s *Service) List(ctx context.Context, req ListCallsRequest) (*CallListResponse, error) {
	params := ListParams{
		Page:     max(req.Page, 1),
		PageSize: req.PageSize,
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}
	if req.CallType != "" {
		params.CallType = &req.CallType
	}

	result, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]CallResponse, len(result.Items))
	for i := range result.Items {
		items[i] = toCallResponse(&result.Items[i])
	}

	return &CallListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Analytics aggregates call activity into today, yesterday and the
// trailing seven days. A fresh cached copy is served when available;
// cache failures fall through to the database.
func (s *Service) Analytics(ctx context.Context) (*AnalyticsResponse, error) {
	if cached := s.cachedAnalytics(ctx); cached != nil {
		return cached, nil
	}

	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := now.AddDate(0, 0, -7)

	today, err := s.store.StatsBetween(ctx, todayStart, now)
	if err != nil {
		return nil, err
	}
	yesterday, err := s.store.StatsBetween(ctx, yesterdayStart, todayStart)
	if err != nil {
		return nil, err
	}
	lastWeek, err := s.store.StatsBetween(ctx, weekStart, now)
	if err != nil {
		return nil, err
	}

	resp := &AnalyticsResponse{
		Today:       *today,
		Yesterday:   *yesterday,
		LastWeek:    *lastWeek,
		GeneratedAt: now,
	}

	s.cacheAnalytics(ctx, resp)
	return resp, nil
}

func (s *Service) cachedAnalytics(ctx context.Context) *AnalyticsResponse {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, analyticsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("analytics cache read failed", "error", err)
		}
		return nil
	}

	var resp AnalyticsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.log.Warn("analytics cache corrupt, ignoring", "error", err)
		return nil
	}
	return &resp
}

func (s *Service) cacheAnalytics(ctx context.Context, resp *AnalyticsResponse) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, analyticsCacheKey, data, s.cacheTTL).Err(); err != nil {
		s.log.Warn("analytics cache write failed", "error", err)
	}
}

func (s *Service) invalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, analyticsCacheKey).Err(); err != nil {
		s.log.Warn("analytics cache invalidation failed", "error", err)
	}
}
