package services

import (
	"context"
	"log/slog"

	"github.com/emilythestrangee/bugai/backend/internal/models"
)

const statisticsCacheKey = "statistics"

type groupCount struct {
	Name  string
	Total int64
}

// Statistics returns totals and per-provider and per-error-type case counts.
// Results are cached for the configured TTL; creating a case or whipping one
// drops the cached copy.
func (s *CaseService) Statistics(ctx context.Context) (*models.Statistics, error) {
	if s.cache != nil {
		var cached models.Statistics
		hit, err := s.cache.Get(ctx, statisticsCacheKey, &cached)
		switch {
		case err != nil:
			s.metrics.RecordCacheLookup("error")
			s.logger.Warn("statistics cache read failed", slog.Any("error", err))
		case hit:
			s.metrics.RecordCacheLookup("hit")
			return &cached, nil
		default:
			s.metrics.RecordCacheLookup("miss")
		}
	}

	stats, err := s.computeStatistics(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statisticsCacheKey, stats, s.statsTTL); err != nil {
			s.logger.Warn("statistics cache write failed", slog.Any("error", err))
		}
	}
	return stats, nil
}

func (s *CaseService) computeStatistics(ctx context.Context) (*models.Statistics, error) {
	db := s.db.WithContext(ctx)
	stats := models.NewStatistics()

	if err := db.Model(&models.Case{}).Count(&stats.TotalCases).Error; err != nil {
		return nil, dbError(err, "count cases")
	}
	if err := db.Model(&models.Case{}).Select("COALESCE(SUM(whip_count), 0)").Scan(&stats.TotalWhipCount).Error; err != nil {
		return nil, dbError(err, "sum whip counts")
	}

	var byProvider []groupCount
	err := db.Model(&models.Case{}).
		Select("ai_provider AS name, COUNT(*) AS total").
		Group("ai_provider").
		Scan(&byProvider).Error
	if err != nil {
		return nil, dbError(err, "group cases by provider")
	}
	for _, row := range byProvider {
		stats.CasesByProvider[models.AIProvider(row.Name)] += row.Total
	}

	var byErrorType []groupCount
	err = db.Model(&models.Case{}).
		Select("error_type AS name, COUNT(*) AS total").
		Group("error_type").
		Scan(&byErrorType).Error
	if err != nil {
		return nil, dbError(err, "group cases by error type")
	}
	for _, row := range byErrorType {
		stats.CasesByErrorType[models.ErrorType(row.Name)] += row.Total
	}

	return &stats, nil
}

func (s *CaseService) invalidateStatistics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statisticsCacheKey); err != nil {
		s.logger.Warn("statistics cache invalidation failed", slog.Any("error", err))
	}
}
