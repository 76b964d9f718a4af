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

const adColumns = "ad_id, adset_id, name, status, creative_id, thumbnail_url, image_url, creative_body, creative_title, created_at, updated_at"

type AdRepository interface {
	// GetByAdID retorna nil sem erro quando o anúncio não existe
	GetByAdID(ctx context.Context, adID string) (*domain.Ad, error)
	SaveOrUpdate(ctx context.Context, ad *domain.Ad) error
	List(ctx context.Context) ([]*domain.Ad, error)
}

type adRepository struct {
	conn postgres.Queryer
}

func NewAdRepository(conn postgres.Queryer) AdRepository {
	return &adRepository{
		conn: conn,
	}
}

func (r *adRepository) GetByAdID(ctx context.Context, adID string) (*domain.Ad, error) {
	query, args, err := squirrel.
		Select(adColumns).
		From("ads").
		Where(squirrel.Eq{"ad_id": adID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(ctx, query, args...)
	ad, err := scanAd(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear anúncio: %w", err)
	}

	return ad, nil
}

func (r *adRepository) SaveOrUpdate(ctx context.Context, ad *domain.Ad) error {
	query := squirrel.StatementBuilder.
		Insert("ads").
		Columns("ad_id", "adset_id", "name", "status", "creative_id", "thumbnail_url", "image_url", "creative_body", "creative_title").
		Values(
			ad.AdID,
			ad.AdSetID,
			ad.Name,
			string(ad.Status),
			ad.CreativeID,
			ad.ThumbnailURL,
			ad.ImageURL,
			ad.CreativeBody,
			ad.CreativeTitle,
		).
		Suffix(`
			ON CONFLICT (ad_id) DO UPDATE SET
				adset_id = EXCLUDED.adset_id,
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				creative_id = EXCLUDED.creative_id,
				thumbnail_url = EXCLUDED.thumbnail_url,
				image_url = EXCLUDED.image_url,
				creative_body = EXCLUDED.creative_body,
				creative_title = EXCLUDED.creative_title,
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

func (r *adRepository) List(ctx context.Context) ([]*domain.Ad, error) {
	query, args, err := squirrel.
		Select(adColumns).
		From("ads").
		OrderBy("ad_id ASC").
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

	ads := make([]*domain.Ad, 0)
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear anúncio: %w", err)
		}
		ads = append(ads, ad)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return ads, nil
}

func scanAd(s scanner) (*domain.Ad, error) {
	ad := &domain.Ad{}
	var status string

	err := s.Scan(
		&ad.AdID,
		&ad.AdSetID,
		&ad.Name,
		&status,
		&ad.CreativeID,
		&ad.ThumbnailURL,
		&ad.ImageURL,
		&ad.CreativeBody,
		&ad.CreativeTitle,
		&ad.CreatedAt,
		&ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ad.Status = domain.CampaignStatus(status)

	return ad, nil
}
