package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finboard/variance/internal/domain"
	"github.com/finboard/variance/internal/infrastructure/metrics"
)

const historyTable = "variance_history"

// HistoryRepository implements usecase.HistoryRepository on Postgres.
// One row per (organization, board, account, period); rerunning an
// analysis for the same period overwrites the previous row.
type HistoryRepository struct {
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
}

// NewHistoryRepository creates a new HistoryRepository. Metrics may be
// nil, in which case nothing is recorded.
func NewHistoryRepository(pool *pgxpool.Pool, m *metrics.Metrics) *HistoryRepository {
	return &HistoryRepository{pool: pool, metrics: m}
}

func (r *HistoryRepository) observe(operation string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}

	r.metrics.DBQueries.WithLabelValues(operation, historyTable).Inc()
	r.metrics.DBDuration.WithLabelValues(operation, historyTable).Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.DBErrors.WithLabelValues(operation).Inc()
	}
}

const upsertHistorySQL = `
INSERT INTO variance_history (
	organization_id, board_id, account_id, account_name, account_type,
	period, budget, actual, variance, variance_percent, severity, recorded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
ON CONFLICT (organization_id, board_id, account_id, period)
DO UPDATE SET
	account_name = EXCLUDED.account_name,
	account_type = EXCLUDED.account_type,
	budget = EXCLUDED.budget,
	actual = EXCLUDED.actual,
	variance = EXCLUDED.variance,
	variance_percent = EXCLUDED.variance_percent,
	severity = EXCLUDED.severity,
	recorded_at = now()`

// RecordAnalysis stores one history row per leaf record of the
// result.
func (r *HistoryRepository) RecordAnalysis(ctx context.Context, organizationID, boardID string, result *domain.AnalysisResult) (err error) {
	start := time.Now()
	defer func() { r.observe("upsert", start, err) }()

	batch := &pgx.Batch{}

	for _, root := range result.Records {
		root.Walk(func(rec *domain.VarianceRecord) {
			if len(rec.Children) > 0 {
				return
			}
			batch.Queue(upsertHistorySQL,
				organizationID,
				boardID,
				rec.AccountID,
				rec.AccountName,
				string(rec.AccountType),
				result.Period,
				decimalToNumeric(rec.Budget),
				decimalToNumeric(rec.Actual),
				decimalToNumeric(rec.Variance),
				rec.VariancePercent,
				string(rec.Severity),
			)
		})
	}

	if batch.Len() == 0 {
		return nil
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to record variance history: %w", err)
		}
	}
	return nil
}

const accountHistorySQL = `
SELECT period, variance, variance_percent
FROM variance_history
WHERE organization_id = $1 AND board_id = $2 AND account_id = $3
ORDER BY period DESC
LIMIT $4`

// AccountHistory returns the trailing variance series for one
// account, oldest period first.
func (r *HistoryRepository) AccountHistory(ctx context.Context, organizationID, boardID, accountID string, lookback int) (history []domain.HistoricalVariance, err error) {
	start := time.Now()
	defer func() { r.observe("select", start, err) }()

	rows, err := r.pool.Query(ctx, accountHistorySQL, organizationID, boardID, accountID, lookback)
	if err != nil {
		return nil, fmt.Errorf("failed to query variance history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			period   string
			variance pgtype.Numeric
			percent  float64
		)
		if err := rows.Scan(&period, &variance, &percent); err != nil {
			return nil, fmt.Errorf("failed to scan variance history row: %w", err)
		}
		history = append(history, domain.HistoricalVariance{
			Period:          period,
			Variance:        numericToDecimal(variance),
			VariancePercent: percent,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows arrive newest-first because of the LIMIT; flip to
	// chronological order.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return history, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
