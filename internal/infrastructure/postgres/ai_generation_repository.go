package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
)

var _ repository.AIGenerationRepository = (*AIGenerationRepo)(nil)

var aiGenerationColumns = []string{
	"id", "user_id", "COALESCE(product_id::text, '')", "generation_type",
	"input_data", "generated_content", "created_at",
}

// AIGenerationRepo registro append-only de generaciones de IA.
type AIGenerationRepo struct {
	q Querier
}

// NewAIGenerationRepository construye el adaptador.
func NewAIGenerationRepository(q Querier) *AIGenerationRepo {
	return &AIGenerationRepo{q: q}
}

// Create inserta la generación. product_id vacío se guarda como NULL.
func (r *AIGenerationRepo) Create(ctx context.Context, g *entity.AIGeneration) error {
	var productID any
	if g.ProductID != "" {
		productID = g.ProductID
	}
	input := g.InputData
	if len(input) == 0 {
		input = []byte("{}")
	}
	query, args, err := psql.Insert("ai_generations").
		Columns("id", "user_id", "product_id", "generation_type", "input_data", "generated_content", "created_at").
		Values(g.ID, g.UserID, productID, g.GenerationType, input, g.GeneratedContent, g.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert ai generation: %w", err)
	}
	_, err = r.q.Exec(ctx, query, args...)
	return mapError("insert ai generation", err)
}

// ListByUser generaciones del usuario, más recientes primero.
func (r *AIGenerationRepo) ListByUser(ctx context.Context, userID string) ([]*entity.AIGeneration, error) {
	return r.list(ctx, psql.Select(aiGenerationColumns...).
		From("ai_generations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC"))
}

// ListAll listado de auditoría; generationType vacío = todos los tipos.
func (r *AIGenerationRepo) ListAll(ctx context.Context, generationType string, limit, offset int) ([]*entity.AIGeneration, error) {
	b := psql.Select(aiGenerationColumns...).From("ai_generations").OrderBy("created_at DESC")
	if generationType != "" {
		b = b.Where(squirrel.Eq{"generation_type": generationType})
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return r.list(ctx, b)
}

func (r *AIGenerationRepo) list(ctx context.Context, b squirrel.SelectBuilder) ([]*entity.AIGeneration, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ai generations: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list ai generations", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.AIGeneration, error) {
		var g entity.AIGeneration
		err := row.Scan(&g.ID, &g.UserID, &g.ProductID, &g.GenerationType,
			&g.InputData, &g.GeneratedContent, &g.CreatedAt)
		return &g, err
	})
}
