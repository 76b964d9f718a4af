package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-sync-engine/infrastructure/database/postgres"
	"github.com/vfg2006/ads-sync-engine/internal/domain"
)

const anomalyColumns = "id, entity_id, entity_type, metric_name, expected_value, actual_value, deviation_percent, severity, ai_explanation, resolved, created_at"

type AnomalyRepository interface {
	Save(ctx context.Context, anomaly *domain.Anomaly) error
	// ListRecent retorna as anomalias mais novas primeiro, limitadas a limit
	ListRecent(ctx context.Context, limit int) ([]*domain.Anomaly, error)
	// MarkResolved marca a anomalia como resolvida e retorna ErrAnomalyNotFound
	// quando o identificador não existe
	MarkResolved(ctx context.Context, id string) error
}

// ErrAnomalyNotFound indica que o identificador informado não corresponde a
// nenhuma anomalia persistida
var ErrAnomalyNotFound = fmt.Errorf("anomalia não encontrada")

type anomalyRepository struct {
	conn postgres.Queryer
}

func NewAnomalyRepository(conn postgres.Queryer) AnomalyRepository {
	return &anomalyRepository{
		conn: conn,
	}
}

func (r *anomalyRepository) Save(ctx context.Context, anomaly *domain.Anomaly) error {
	query := squirrel.StatementBuilder.
		Insert("anomalies").
		Columns("id", "entity_id", "entity_type", "metric_name", "expected_value", "actual_value", "deviation_percent", "severity", "ai_explanation", "resolved").
		Values(
			anomaly.ID,
			anomaly.EntityID,
			string(anomaly.EntityType),
			anomaly.MetricName,
			anomaly.ExpectedValue,
			anomaly.ActualValue,
			anomaly.DeviationPercent,
			string(anomaly.Severity),
			anomaly.AIExplanation,
			anomaly.Resolved,
		).
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

func (r *anomalyRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Anomaly, error) {
	query, args, err := squirrel.
		Select(anomalyColumns).
		From("anomalies").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
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

	anomalies := make([]*domain.Anomaly, 0)
	for rows.Next() {
		anomaly := &domain.Anomaly{}
		var entityType, severity string

		err = rows.Scan(
			&anomaly.ID,
			&anomaly.EntityID,
			&entityType,
			&anomaly.MetricName,
			&anomaly.ExpectedValue,
			&anomaly.ActualValue,
			&anomaly.DeviationPercent,
			&severity,
			&anomaly.AIExplanation,
			&anomaly.Resolved,
			&anomaly.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear anomalia: %w", err)
		}

		anomaly.EntityType = domain.EntityType(entityType)
		anomaly.Severity = domain.AnomalySeverity(severity)
		anomalies = append(anomalies, anomaly)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return anomalies, nil
}

func (r *anomalyRepository) MarkResolved(ctx context.Context, id string) error {
	query, args, err := squirrel.
		Update("anomalies").
		Set("resolved", true).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao verificar linhas afetadas: %w", err)
	}

	if affected == 0 {
		return ErrAnomalyNotFound
	}

	return nil
}
