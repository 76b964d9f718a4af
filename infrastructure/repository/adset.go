package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-sync-engine/infrastructure/database/postgres"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
)

const adSetColumns = "adset_id, campaign_id, name, status, budget, targeting, optimization_goal, billing_event, bid_strategy, created_at, updated_at"

type AdSetRepository interface {
	// GetByAdSetID retorna nil sem erro quando o conjunto não existe
	GetByAdSetID(ctx context.Context, adSetID string) (*domain.AdSet, error)
	SaveOrUpdate(ctx context.Context, adSet *domain.AdSet) error
	List(ctx context.Context) ([]*domain.AdSet, error)
}

type adSetRepository struct {
	conn postgres.Queryer
}

func NewAdSetRepository(conn postgres.Queryer) AdSetRepository {
	return &adSetRepository{
		conn: conn,
	}
}

func (r *adSetRepository) GetByAdSetID(ctx context.Context, adSetID string) (*domain.AdSet, error) {
	query, args, err := squirrel.
		Select(adSetColumns).
		From("adsets").
		Where(squirrel.Eq{"adset_id": adSetID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	adSet, err := scanAdSet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear conjunto de anúncios: %w", err)
	}

	return adSet, nil
}

func (r *adSetRepository) SaveOrUpdate(ctx context.Context, adSet *domain.AdSet) error {
	var targeting any
	if adSet.Targeting != nil {
		targeting = []byte(adSet.Targeting)
	}

	query := squirrel.StatementBuilder.
		Insert("adsets").
		Columns("adset_id", "campaign_id", "name", "status", "budget", "targeting", "optimization_goal", "billing_event", "bid_strategy").
		Values(
			adSet.AdSetID,
			adSet.CampaignID,
			adSet.Name,
			string(adSet.Status),
			adSet.Budget,
			targeting,
			adSet.OptimizationGoal,
			adSet.BillingEvent,
			adSet.BidStrategy,
		).
		Suffix(`
			ON CONFLICT (adset_id) DO UPDATE SET
				campaign_id = EXCLUDED.campaign_id,
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				budget = EXCLUDED.budget,
				targeting = EXCLUDED.targeting,
				optimization_goal = EXCLUDED.optimization_goal,
				billing_event = EXCLUDED.billing_event,
				bid_strategy = EXCLUDED.bid_strategy,
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

func (r *adSetRepository) List(ctx context.Context) ([]*domain.AdSet, error) {
	query, args, err := squirrel.
		Select(adSetColumns).
		From("adsets").
		OrderBy("adset_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	adSets := make([]*domain.AdSet, 0)
	for rows.Next() {
		adSet, err := scanAdSet(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear conjunto de anúncios: %w", err)
		}
		adSets = append(adSets, adSet)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return adSets, nil
}

func scanAdSet(s scanner) (*domain.AdSet, error) {
	adSet := &domain.AdSet{}
	var status string
	var targeting []byte

	err := s.Scan(
		&adSet.AdSetID,
		&adSet.CampaignID,
		&adSet.Name,
		&status,
		&adSet.Budget,
		&targeting,
		&adSet.OptimizationGoal,
		&adSet.BillingEvent,
		&adSet.BidStrategy,
		&adSet.CreatedAt,
		&adSet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	adSet.Status = domain.CampaignStatus(status)
	adSet.Targeting = targeting

	return adSet, nil
}
