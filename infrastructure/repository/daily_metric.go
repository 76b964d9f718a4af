package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-sync-engine/infrastructure/database/postgres"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
)

const dailyMetricColumns = "entity_id, entity_type, date, spend, impressions, clicks, conversions, revenue, cpc, ctr, cpm, roas, frequency, reach, created_at, updated_at"

type DailyMetricRepository interface {
	// FindByNaturalKey retorna nil sem erro quando a linha não existe
	FindByNaturalKey(ctx context.Context, entityID string, entityType domain.EntityType, date time.Time) (*domain.DailyMetric, error)
	// SaveOrUpdate faz o upsert pela chave natural (entity_id, entity_type, date)
	// com semântica last-write-wins
	SaveOrUpdate(ctx context.Context, metric *domain.DailyMetric) error
	GetByEntityAndDateRange(ctx context.Context, entityID string, entityType domain.EntityType, startDate, endDate time.Time) ([]*domain.DailyMetric, error)
	// GetRecent retorna todas as linhas dos últimos windowDays dias, de todas
	// as entidades, ordenadas por entidade e data crescente
	GetRecent(ctx context.Context, windowDays int) ([]*domain.DailyMetric, error)
}

type dailyMetricRepository struct {
	conn postgres.Queryer
}

func NewDailyMetricRepository(conn postgres.Queryer) DailyMetricRepository {
	return &dailyMetricRepository{
		conn: conn,
	}
}

func (r *dailyMetricRepository) FindByNaturalKey(ctx context.Context, entityID string, entityType domain.EntityType, date time.Time) (*domain.DailyMetric, error) {
	query, args, err := squirrel.
		Select(dailyMetricColumns).
		From("daily_metrics").
		Where(squirrel.Eq{
			"entity_id":   entityID,
			"entity_type": string(entityType),
			"date":        date.Format("2006-01-02"),
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	metric, err := scanDailyMetric(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear métrica diária: %w", err)
	}

	return metric, nil
}

func (r *dailyMetricRepository) SaveOrUpdate(ctx context.Context, metric *domain.DailyMetric) error {
	query := squirrel.StatementBuilder.
		Insert("daily_metrics").
		Columns("entity_id", "entity_type", "date", "spend", "impressions", "clicks", "conversions", "revenue", "cpc", "ctr", "cpm", "roas", "frequency", "reach").
		Values(
			metric.EntityID,
			string(metric.EntityType),
			metric.Date.Format("2006-01-02"),
			metric.Spend,
			metric.Impressions,
			metric.Clicks,
			metric.Conversions,
			metric.Revenue,
			metric.CPC,
			metric.CTR,
			metric.CPM,
			metric.ROAS,
			metric.Frequency,
			metric.Reach,
		).
		Suffix(`
			ON CONFLICT (entity_id, entity_type, date) DO UPDATE SET
				spend = EXCLUDED.spend,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				conversions = EXCLUDED.conversions,
				revenue = EXCLUDED.revenue,
				cpc = EXCLUDED.cpc,
				ctr = EXCLUDED.ctr,
				cpm = EXCLUDED.cpm,
				roas = EXCLUDED.roas,
				frequency = EXCLUDED.frequency,
				reach = EXCLUDED.reach,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(ctx, sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *dailyMetricRepository) GetByEntityAndDateRange(ctx context.Context, entityID string, entityType domain.EntityType, startDate, endDate time.Time) ([]*domain.DailyMetric, error) {
	query, args, err := squirrel.
		Select(dailyMetricColumns).
		From("daily_metrics").
		Where(squirrel.Eq{"entity_id": entityID, "entity_type": string(entityType)}).
		Where(squirrel.GtOrEq{"date": startDate.Format("2006-01-02")}).
		Where(squirrel.LtOrEq{"date": endDate.Format("2006-01-02")}).
		OrderBy("date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryMetrics(ctx, query, args)
}

func (r *dailyMetricRepository) GetRecent(ctx context.Context, windowDays int) ([]*domain.DailyMetric, error) {
	cutoffDate := time.Now().AddDate(0, 0, -windowDays).Format("2006-01-02")

	query, args, err := squirrel.
		Select(dailyMetricColumns).
		From("daily_metrics").
		Where(squirrel.GtOrEq{"date": cutoffDate}).
		OrderBy("entity_type ASC", "entity_id ASC", "date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryMetrics(ctx, query, args)
}

func (r *dailyMetricRepository) queryMetrics(ctx context.Context, query string, args []interface{}) ([]*domain.DailyMetric, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	metrics := make([]*domain.DailyMetric, 0)
	for rows.Next() {
		metric, err := scanDailyMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear métrica diária: %w", err)
		}
		metrics = append(metrics, metric)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return metrics, nil
}

func scanDailyMetric(s scanner) (*domain.DailyMetric, error) {
	metric := &domain.DailyMetric{}
	var entityType string

	err := s.Scan(
		&metric.EntityID,
		&entityType,
		&metric.Date,
		&metric.Spend,
		&metric.Impressions,
		&metric.Clicks,
		&metric.Conversions,
		&metric.Revenue,
		&metric.CPC,
		&metric.CTR,
		&metric.CPM,
		&metric.ROAS,
		&metric.Frequency,
		&metric.Reach,
		&metric.CreatedAt,
		&metric.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	metric.EntityType = domain.EntityType(entityType)

	return metric, nil
}
