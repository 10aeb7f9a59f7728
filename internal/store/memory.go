package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/valpere/transeval/internal"
)

// MemoryEntry is one remembered translation.
type MemoryEntry struct {
	ID          string
	Key         internal.MemoryKey
	SourceText  string
	Translation string
	Hits        int
	Invalidated bool
	LastUsed    time.Time
}

// MemoryStats summarises the translation memory.
type MemoryStats struct {
	Entries       int
	Active        int
	Invalidated   int
	Hits          int
	PerTranslator map[string]int
}

// maxSimilarRunes bounds the texts compared by RecallSimilar.
const maxSimilarRunes = 1000

const (
	memoryColumns = `id, translator, model, style, source_lang, target_lang, source_text, translation, hits, invalidated, last_used`
	keyClause     = `translator = ? AND model = ? AND style = ? AND source_lang = ? AND target_lang = ?`
)

func keyArgs(k internal.MemoryKey, extra ...any) []any {
	return append([]any{k.Translator, k.Model, k.Style, k.SourceLang, k.TargetLang}, extra...)
}

// Remember stores translation of text under key. An existing entry for the
// same key and text is overwritten and served again even if it was
// invalidated.
func (s *Store) Remember(ctx context.Context, key internal.MemoryKey, text, translation string) error {
	src := normalizeText(text)
	if src == "" || key.Translator == "" {
		return internal.Validationf("a memory entry needs source text and a translator")
	}

	now := time.Now().UTC()
	args := append([]any{uuid.NewString()}, keyArgs(key, src, translation, now, now)...)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO translation_memory
			(id, translator, model, style, source_lang, target_lang, source_text, translation, last_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (translator, model, style, source_lang, target_lang, source_text)
		DO UPDATE SET translation = excluded.translation, invalidated = FALSE, last_used = excluded.last_used`,
		args...)
	if err != nil {
		return fmt.Errorf("remember translation: %w", err)
	}
	return nil
}

// Recall returns the active translation stored for text under key.
func (s *Store) Recall(ctx context.Context, key internal.MemoryKey, text string) (string, bool, error) {
	var id, translation string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, translation FROM translation_memory WHERE `+keyClause+` AND source_text = ? AND NOT invalidated`,
		keyArgs(key, normalizeText(text))...).Scan(&id, &translation)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("recall translation: %w", err)
	}
	if err := s.touch(ctx, id); err != nil {
		return "", false, err
	}
	return translation, true, nil
}

// RecallSimilar returns the active translation under key whose source text is
// most similar to text, provided the similarity reaches threshold (0-1).
// Candidates are narrowed by length before edit distances are computed.
func (s *Store) RecallSimilar(ctx context.Context, key internal.MemoryKey, text string, threshold float64) (string, bool, error) {
	if threshold <= 0 || threshold > 1 {
		return "", false, nil
	}
	src := normalizeText(text)
	n := len([]rune(src))
	if n == 0 || n > maxSimilarRunes {
		return "", false, nil
	}

	// similarity >= threshold implies n*threshold <= len(candidate) <= n/threshold.
	lo, hi := int(math.Ceil(float64(n)*threshold)), int(math.Floor(float64(n)/threshold))
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, translation FROM translation_memory
		 WHERE `+keyClause+` AND NOT invalidated AND length(source_text) BETWEEN ? AND ?`,
		keyArgs(key, lo, hi)...)
	if err != nil {
		return "", false, fmt.Errorf("recall similar translation: %w", err)
	}
	defer rows.Close()

	var (
		bestID, best string
		bestScore    float64
	)
	for rows.Next() {
		var id, candidate, translation string
		if err := rows.Scan(&id, &candidate, &translation); err != nil {
			return "", false, err
		}
		if score := stringSimilarity(src, candidate); score >= threshold && score > bestScore {
			bestID, best, bestScore = id, translation, score
		}
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}
	if bestID == "" {
		return "", false, nil
	}
	if err := s.touch(ctx, bestID); err != nil {
		return "", false, err
	}
	return best, true, nil
}

func (s *Store) touch(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE translation_memory SET hits = hits + 1, last_used = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update memory usage: %w", err)
	}
	return nil
}

// Invalidate keeps the entry but stops it from being recalled.
func (s *Store) Invalidate(ctx context.Context, id string) error {
	return s.execOne(ctx, `UPDATE translation_memory SET invalidated = TRUE WHERE id = ?`, id)
}

// Forget deletes one entry.
func (s *Store) Forget(ctx context.Context, id string) error {
	return s.execOne(ctx, `DELETE FROM translation_memory WHERE id = ?`, id)
}

func (s *Store) execOne(ctx context.Context, query, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("update memory entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internal.NotFoundf("memory entry '%s' does not exist", id)
	}
	return nil
}

// Purge deletes the entries of one translator, or every entry when
// translator is empty, and returns how many were removed.
func (s *Store) Purge(ctx context.Context, translator string) (int64, error) {
	query, args := `DELETE FROM translation_memory`, []any{}
	if translator != "" {
		query, args = query+` WHERE translator = ?`, append(args, translator)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge memory: %w", err)
	}
	return res.RowsAffected()
}

// Entries lists memory entries, most recently used first, optionally for a
// single translator.
func (s *Store) Entries(ctx context.Context, translator string) ([]MemoryEntry, error) {
	query, args := `SELECT `+memoryColumns+` FROM translation_memory`, []any{}
	if translator != "" {
		query, args = query+` WHERE translator = ?`, append(args, translator)
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY last_used DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list memory: %w", err)
	}
	defer rows.Close()

	var entries []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.ID, &e.Key.Translator, &e.Key.Model, &e.Key.Style, &e.Key.SourceLang, &e.Key.TargetLang,
			&e.SourceText, &e.Translation, &e.Hits, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats counts entries and hits, with active entries broken down by
// translator.
func (s *Store) Stats(ctx context.Context) (MemoryStats, error) {
	stats := MemoryStats{PerTranslator: make(map[string]int)}
	rows, err := s.db.QueryContext(ctx, `
		SELECT translator, invalidated, COUNT(*), COALESCE(SUM(hits), 0)
		FROM translation_memory GROUP BY translator, invalidated`)
	if err != nil {
		return stats, fmt.Errorf("memory stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			translator  string
			invalidated bool
			count, hits int
		)
		if err := rows.Scan(&translator, &invalidated, &count, &hits); err != nil {
			return stats, err
		}
		stats.Entries += count
		stats.Hits += hits
		if invalidated {
			stats.Invalidated += count
			continue
		}
		stats.Active += count
		stats.PerTranslator[translator] += count
	}
	return stats, rows.Err()
}

// normalizeText trims and NFC-normalizes source text so equal texts share an
// entry.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// stringSimilarity is 1 minus the rune edit distance over the longer length.
func stringSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(ra, rb))/float64(longest)
}

func editDistance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			diag, row[j] = row[j], min(row[j]+1, row[j-1]+1, diag+cost)
		}
	}
	return row[len(b)]
}
