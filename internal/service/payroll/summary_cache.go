package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cache"
)

type summaryCache struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewSummaryCache stores period summaries in c. Cache failures are logged and
// treated as misses so a Redis outage never fails a request.
func NewSummaryCache(c cache.Cache, ttl time.Duration) payroll.SummaryCache {
	return &summaryCache{cache: c, ttl: ttl}
}

func SummaryCacheKey(companyID string, period payroll.Period) string {
	return fmt.Sprintf("payroll:summary:%s:%s", companyID, period)
}

func (s *summaryCache) Get(ctx context.Context, companyID string, period payroll.Period) (payroll.PayrollSummaryResponse, bool) {
	var summary payroll.PayrollSummaryResponse
	found, err := s.cache.Get(ctx, SummaryCacheKey(companyID, period), &summary)
	if err != nil {
		slog.WarnContext(ctx, "payroll summary cache read failed", "company_id", companyID, "period", period.String(), "error", err)
		return payroll.PayrollSummaryResponse{}, false
	}
	return summary, found
}

func (s *summaryCache) Set(ctx context.Context, companyID string, period payroll.Period, summary payroll.PayrollSummaryResponse) {
	if err := s.cache.Set(ctx, SummaryCacheKey(companyID, period), summary, s.ttl); err != nil {
		slog.WarnContext(ctx, "payroll summary cache write failed", "company_id", companyID, "period", period.String(), "error", err)
	}
}

func (s *summaryCache) Invalidate(ctx context.Context, companyID string, period payroll.Period) {
	if err := s.cache.Delete(ctx, SummaryCacheKey(companyID, period)); err != nil {
		slog.WarnContext(ctx, "payroll summary cache invalidation failed", "company_id", companyID, "period", period.String(), "error", err)
	}
}
