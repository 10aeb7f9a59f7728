package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valpere/transeval/internal"
)

// SaveScores records one evaluation run and the scores of every model in it.
func (s *Store) SaveScores(ctx context.Context, run internal.EvaluationRun, results map[string]internal.Scores) error {
	if run.ID == "" {
		return internal.Validationf("evaluation run id is required")
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO evaluation_runs (id, models, samples, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, strings.Join(run.Models, ","), run.Samples, run.Timestamp); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for model, scores := range results {
		for metric, score := range scores {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO evaluation_scores (run_id, model, metric, score) VALUES (?, ?, ?, ?)`,
				run.ID, model, metric, score); err != nil {
				return fmt.Errorf("insert score: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]internal.EvaluationRun, error) {
	query := `SELECT id, models, samples, created_at FROM evaluation_runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []internal.EvaluationRun
	for rows.Next() {
		var (
			run    internal.EvaluationRun
			models string
		)
		if err := rows.Scan(&run.ID, &models, &run.Samples, &run.Timestamp); err != nil {
			return nil, err
		}
		if models != "" {
			run.Models = strings.Split(models, ",")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunScores returns the scores stored for runID keyed by model.
func (s *Store) RunScores(ctx context.Context, runID string) (map[string]internal.Scores, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM evaluation_runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, internal.NotFoundf("evaluation run '%s'", runID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT model, metric, score FROM evaluation_scores WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make(map[string]internal.Scores)
	for rows.Next() {
		var (
			model, metric string
			score         float64
		)
		if err := rows.Scan(&model, &metric, &score); err != nil {
			return nil, err
		}
		if results[model] == nil {
			results[model] = make(internal.Scores)
		}
		results[model][metric] = score
	}
	return results, rows.Err()
}

// ModelHistory returns every stored score for model keyed by run id, with the
// run ids ordered newest first.
func (s *Store) ModelHistory(ctx context.Context, model string) ([]string, map[string]internal.Scores, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.run_id, s.metric, s.score FROM evaluation_scores s
		 JOIN evaluation_runs r ON r.id = s.run_id
		 WHERE s.model = ? ORDER BY r.created_at DESC`, model)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var order []string
	results := make(map[string]internal.Scores)
	for rows.Next() {
		var (
			runID, metric string
			score         float64
		)
		if err := rows.Scan(&runID, &metric, &score); err != nil {
			return nil, nil, err
		}
		if results[runID] == nil {
			results[runID] = make(internal.Scores)
			order = append(order, runID)
		}
		results[runID][metric] = score
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return order, results, nil
}
