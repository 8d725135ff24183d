package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/your-org/styleum/internal/config"
	"github.com/your-org/styleum/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Items ---

func (s *PostgresStore) CreateItem(ctx context.Context, userID *uuid.UUID, photoKey string) (*models.Item, error) {
	item := &models.Item{
		ID:       uuid.New(),
		UserID:   userID,
		PhotoKey: photoKey,
		Status:   models.ItemStatusPending,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO items (id, user_id, photo_key, status) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`,
		item.ID, item.UserID, item.PhotoKey, item.Status,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item := &models.Item{}
	var analysisJSON []byte
	// Pending items have a NULL embedding; a pointer scan maps that to nil.
	var vec *pgvector.Vector
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, photo_key, status, analysis, embedding, tags, analyzed_at, created_at, updated_at
		 FROM items WHERE id = $1`, id,
	).Scan(&item.ID, &item.UserID, &item.PhotoKey, &item.Status,
		&analysisJSON, &vec, &item.Tags, &item.AnalyzedAt, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(analysisJSON) > 0 {
		analysis := &models.FashionAnalysis{}
		if err := json.Unmarshal(analysisJSON, analysis); err != nil {
			return nil, fmt.Errorf("decode item analysis: %w", err)
		}
		item.Analysis = analysis
	}
	if vec != nil {
		item.Embedding = vec.Slice()
	}
	return item, nil
}

func (s *PostgresStore) ListItems(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]models.Item, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	where := ""
	args := []interface{}{}
	argIdx := 1
	if userID != nil {
		where = fmt.Sprintf("WHERE user_id = $%d", argIdx)
		args = append(args, *userID)
		argIdx++
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM items "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, photo_key, status, analysis, tags, analyzed_at, created_at, updated_at
		 FROM items %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var analysisJSON []byte
		if err := rows.Scan(&item.ID, &item.UserID, &item.PhotoKey, &item.Status,
			&analysisJSON, &item.Tags, &item.AnalyzedAt, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		if len(analysisJSON) > 0 {
			analysis := &models.FashionAnalysis{}
			if err := json.Unmarshal(analysisJSON, analysis); err != nil {
				return nil, 0, fmt.Errorf("decode item analysis: %w", err)
			}
			item.Analysis = analysis
		}
		items = append(items, item)
	}
	return items, total, nil
}

// UpdateAnnotation writes the completed analysis in one atomic update.
// There is no optimistic-concurrency check: a concurrent re-analysis of the
// same item simply has the later write win.
func (s *PostgresStore) UpdateAnnotation(ctx context.Context, itemID uuid.UUID, annotation models.PersistedAnnotation) error {
	analysisJSON, err := json.Marshal(annotation.Analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	vec := pgvector.NewVector(annotation.Embedding)
	tag, err := s.pool.Exec(ctx,
		`UPDATE items
		 SET analysis = $1, embedding = $2, tags = $3, analyzed_at = $4, status = $5, updated_at = now()
		 WHERE id = $6`,
		analysisJSON, vec, annotation.Tags, annotation.AnalyzedAt, models.ItemStatusAnalyzed, itemID)
	if err != nil {
		return fmt.Errorf("update annotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s not found", itemID)
	}
	return nil
}

// SearchSimilarItems finds the closest analyzed items for an embedding.
func (s *PostgresStore) SearchSimilarItems(ctx context.Context, embedding []float32, userID *uuid.UUID, threshold float64, limit int) ([]ItemMatch, error) {
	if limit <= 0 {
		limit = 10
	}
	vec := pgvector.NewVector(embedding)

	var query string
	var args []interface{}

	if userID != nil {
		query = `
			SELECT id, 1 - (embedding <=> $1) AS score
			FROM items
			WHERE user_id = $2
			  AND embedding IS NOT NULL
			  AND 1 - (embedding <=> $1) >= $3
			ORDER BY embedding <=> $1
			LIMIT $4`
		args = []interface{}{vec, *userID, threshold, limit}
	} else {
		query = `
			SELECT id, 1 - (embedding <=> $1) AS score
			FROM items
			WHERE embedding IS NOT NULL
			  AND 1 - (embedding <=> $1) >= $2
			ORDER BY embedding <=> $1
			LIMIT $3`
		args = []interface{}{vec, threshold, limit}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search similar items: %w", err)
	}
	defer rows.Close()

	var matches []ItemMatch
	for rows.Next() {
		var m ItemMatch
		if err := rows.Scan(&m.ItemID, &m.Score); err != nil {
			return nil, fmt.Errorf("scan item match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

type ItemMatch struct {
	ItemID uuid.UUID `json:"item_id"`
	Score  float32   `json:"score"`
}

// --- Corrections ---

func (s *PostgresStore) AddCorrection(ctx context.Context, c *models.CorrectionRecord) error {
	c.ID = uuid.New()
	return s.pool.QueryRow(ctx,
		`INSERT INTO corrections (id, user_id, item_id, field, original_value, corrected_value)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`,
		c.ID, c.UserID, c.ItemID, c.Field, c.OriginalValue, c.CorrectedValue,
	).Scan(&c.CreatedAt)
}

// RecentCorrections returns the user's latest corrections, most recent
// first, across all fields.
func (s *PostgresStore) RecentCorrections(ctx context.Context, userID uuid.UUID, limit int) ([]models.CorrectionRecord, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, item_id, field, original_value, corrected_value, created_at
		 FROM corrections WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent corrections: %w", err)
	}
	defer rows.Close()

	var records []models.CorrectionRecord
	for rows.Next() {
		var c models.CorrectionRecord
		if err := rows.Scan(&c.ID, &c.UserID, &c.ItemID, &c.Field, &c.OriginalValue, &c.CorrectedValue, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		records = append(records, c)
	}
	return records, nil
}

// --- Vibe anchors ---

func (s *PostgresStore) UpsertAnchor(ctx context.Context, name string, embedding []float32) (*models.VibeAnchor, error) {
	anchor := &models.VibeAnchor{
		ID:        uuid.New(),
		Name:      name,
		Embedding: embedding,
	}
	vec := pgvector.NewVector(embedding)
	err := s.pool.QueryRow(ctx,
		`INSERT INTO vibe_anchors (id, name, embedding) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET embedding = EXCLUDED.embedding
		 RETURNING id, created_at`,
		anchor.ID, anchor.Name, vec,
	).Scan(&anchor.ID, &anchor.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert anchor: %w", err)
	}
	return anchor, nil
}

func (s *PostgresStore) ListAnchors(ctx context.Context) ([]models.VibeAnchor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at FROM vibe_anchors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list anchors: %w", err)
	}
	defer rows.Close()

	var anchors []models.VibeAnchor
	for rows.Next() {
		var a models.VibeAnchor
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan anchor: %w", err)
		}
		anchors = append(anchors, a)
	}
	return anchors, nil
}

// SearchAnchors returns up to topK anchors with cosine similarity above
// threshold, best first.
func (s *PostgresStore) SearchAnchors(ctx context.Context, embedding []float32, threshold float64, topK int) ([]models.AnchorMatch, error) {
	if topK <= 0 {
		topK = 5
	}
	vec := pgvector.NewVector(embedding)

	rows, err := s.pool.Query(ctx,
		`SELECT name, 1 - (embedding <=> $1) AS similarity
		 FROM vibe_anchors
		 WHERE 1 - (embedding <=> $1) >= $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, threshold, topK)
	if err != nil {
		return nil, fmt.Errorf("search anchors: %w", err)
	}
	defer rows.Close()

	var matches []models.AnchorMatch
	for rows.Next() {
		var m models.AnchorMatch
		if err := rows.Scan(&m.Name, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scan anchor match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}
