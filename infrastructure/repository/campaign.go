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

const campaignColumns = "campaign_id, name, status, effective_status, objective, daily_budget, lifetime_budget, created_at, updated_at"

type CampaignRepository interface {
	// GetByCampaignID retorna nil sem erro quando a campanha não existe
	GetByCampaignID(ctx context.Context, campaignID string) (*domain.Campaign, error)
	SaveOrUpdate(ctx context.Context, campaign *domain.Campaign) error
	List(ctx context.Context) ([]*domain.Campaign, error)
}

type campaignRepository struct {
	conn postgres.Queryer
}

func NewCampaignRepository(conn postgres.Queryer) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

func (r *campaignRepository) GetByCampaignID(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	query, args, err := squirrel.
		Select(campaignColumns).
		From("campaigns").
		Where(squirrel.Eq{"campaign_id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	campaign, err := scanCampaign(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear campanha: %w", err)
	}

	return campaign, nil
}

func (r *campaignRepository) SaveOrUpdate(ctx context.Context, campaign *domain.Campaign) error {
	query := squirrel.StatementBuilder.
		Insert("campaigns").
		Columns("campaign_id", "name", "status", "effective_status", "objective", "daily_budget", "lifetime_budget").
		Values(
			campaign.CampaignID,
			campaign.Name,
			string(campaign.Status),
			campaign.EffectiveStatus,
			campaign.Objective,
			campaign.DailyBudget,
			campaign.LifetimeBudget,
		).
		Suffix(`
			ON CONFLICT (campaign_id) DO UPDATE SET
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				effective_status = EXCLUDED.effective_status,
				objective = EXCLUDED.objective,
				daily_budget = EXCLUDED.daily_budget,
				lifetime_budget = EXCLUDED.lifetime_budget,
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

func (r *campaignRepository) List(ctx context.Context) ([]*domain.Campaign, error) {
	query, args, err := squirrel.
		Select(campaignColumns).
		From("campaigns").
		OrderBy("campaign_id ASC").
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

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear campanha: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return campaigns, nil
}

// scanner cobre *sql.Row e *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanCampaign(s scanner) (*domain.Campaign, error) {
	campaign := &domain.Campaign{}
	var status string

	err := s.Scan(
		&campaign.CampaignID,
		&campaign.Name,
		&status,
		&campaign.EffectiveStatus,
		&campaign.Objective,
		&campaign.DailyBudget,
		&campaign.LifetimeBudget,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	campaign.Status = domain.CampaignStatus(status)

	return campaign, nil
}
