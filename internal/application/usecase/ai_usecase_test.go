package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/usecase"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository/mocks"
)

type fakeLLM struct {
	text   string
	err    error
	system string
	user   string
	calls  int
}

func (f *fakeLLM) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.system, f.user = systemPrompt, userPrompt
	if _, ok := ctx.Deadline(); !ok {
		return "", errors.New("sin deadline")
	}
	return f.text, f.err
}

func newAI(t *testing.T, llm *fakeLLM) (*usecase.AIUseCase, *mocks.MockAIGenerationRepository, *mocks.MockProductRepository) {
	ctrl := gomock.NewController(t)
	gens := mocks.NewMockAIGenerationRepository(ctrl)
	products := mocks.NewMockProductRepository(ctrl)
	return usecase.NewAIUseCase(llm, gens, products, time.Second, nil, nil), gens, products
}

func TestAI_Generate_RegistraGeneracion(t *testing.T) {
	llm := &fakeLLM{text: "Caption keren #umkm"}
	uc, gens, _ := newAI(t, llm)

	gens.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, g *entity.AIGeneration) error {
		assert.Equal(t, "u1", g.UserID)
		assert.Equal(t, entity.GenerationMarketingCaption, g.GenerationType)
		assert.Equal(t, "Caption keren #umkm", g.GeneratedContent)
		assert.Contains(t, string(g.InputData), `"prompt":"Buat caption"`)
		return nil
	})

	resp, err := uc.Generate(context.Background(), "u1", dto.GenerateRequest{
		Prompt:      "Buat caption",
		Type:        entity.GenerationMarketingCaption,
		ProductData: map[string]any{"name": "Keripik", "price": 15000.0, "stock": 3},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Caption keren #umkm", resp.GeneratedText)
	assert.Contains(t, llm.system, "social media")
	assert.Contains(t, llm.user, "- Nama: Keripik")
	assert.Contains(t, llm.user, "- Harga: 15000")
	assert.Contains(t, llm.user, "- Stok: 3")
}

func TestAI_Generate_TipoDesconocidoUsaGeneral(t *testing.T) {
	llm := &fakeLLM{text: "ok"}
	uc, gens, _ := newAI(t, llm)
	gens.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, g *entity.AIGeneration) error {
		assert.Equal(t, entity.GenerationGeneral, g.GenerationType)
		return nil
	})

	resp, err := uc.Generate(context.Background(), "u1", dto.GenerateRequest{Prompt: "halo", Type: "puisi"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	_, general := usecase.SystemPromptFor(entity.GenerationGeneral)
	assert.Equal(t, general, llm.system)
}

func TestAI_Generate_FalloProveedor_SuccessFalse(t *testing.T) {
	llm := &fakeLLM{err: domain.ErrAIUnavailable}
	uc, _, _ := newAI(t, llm) // sin Create: no se registra nada

	resp, err := uc.Generate(context.Background(), "u1", dto.GenerateRequest{Prompt: "halo"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, resp.GeneratedText)
}

func TestAI_Generate_PromptVacio(t *testing.T) {
	llm := &fakeLLM{}
	uc, _, _ := newAI(t, llm)
	_, err := uc.Generate(context.Background(), "u1", dto.GenerateRequest{Prompt: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, llm.calls)
}

func TestAI_Generate_FalloAlRegistrarNoInvalidaTexto(t *testing.T) {
	uc, gens, _ := newAI(t, &fakeLLM{text: "ok"})
	gens.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db caída"))

	resp, err := uc.Generate(context.Background(), "u1", dto.GenerateRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestAI_Generate_ProductoAjenoConProductDataEsForbidden(t *testing.T) {
	llm := &fakeLLM{text: "x"}
	uc, gens, products := newAI(t, llm)
	p := productWith(nil, nil)
	p.UserID = "otro"
	products.EXPECT().GetByID(gomock.Any(), "p1").Return(p, nil)
	gens.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := uc.Generate(context.Background(), "u1", dto.GenerateRequest{
		Prompt:      "Buat caption",
		ProductID:   "p1",
		ProductData: map[string]any{"name": "Keripik"},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, llm.calls)
}

func TestAI_Generate_ProductDataPrevaleceSobreProductoPropio(t *testing.T) {
	llm := &fakeLLM{text: "ok"}
	uc, gens, products := newAI(t, llm)
	products.EXPECT().GetByID(gomock.Any(), "p1").Return(productWith(i64(15000), nil), nil)
	gens.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, g *entity.AIGeneration) error {
		assert.Equal(t, "p1", g.ProductID)
		return nil
	})

	_, err := uc.Generate(context.Background(), "u1", dto.GenerateRequest{
		Prompt:      "Buat caption",
		ProductID:   "p1",
		ProductData: map[string]any{"name": "Keripik"},
	})
	require.NoError(t, err)
	assert.Contains(t, llm.user, "- Nama: Keripik")
	assert.NotContains(t, llm.user, "Kopi")
}

func productWith(price, cost *int64) *entity.Product {
	p := &entity.Product{ID: "p1", UserID: "u1", Name: "Kopi", Stock: 10, IsActive: true}
	if price != nil {
		p.Price = decimal.NewNullDecimal(decimal.NewFromInt(*price))
	}
	if cost != nil {
		p.Cost = decimal.NewNullDecimal(decimal.NewFromInt(*cost))
	}
	return p
}

func i64(v int64) *int64 { return &v }

func TestAI_SuggestPrice_ExtraeMonto(t *testing.T) {
	llm := &fakeLLM{text: "Harga disarankan: Rp 18.500\nAlasan: margin sehat."}
	uc, gens, products := newAI(t, llm)
	products.EXPECT().GetByID(gomock.Any(), "p1").Return(productWith(i64(15000), i64(10000)), nil)
	gens.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := uc.SuggestPrice(context.Background(), "u1", dto.SuggestPriceRequest{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, usecase.PriceSourceAI, resp.Source)
	assert.True(t, decimal.NewFromInt(18500).Equal(resp.SuggestedPrice))
	assert.Contains(t, llm.user, "- Modal: 10000")
}

func TestAI_SuggestPrice_SinMonto_Heuristica(t *testing.T) {
	uc, gens, products := newAI(t, &fakeLLM{text: "Sesuaikan dengan pasar."})
	products.EXPECT().GetByID(gomock.Any(), "p1").Return(productWith(nil, i64(10000)), nil)
	gens.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := uc.SuggestPrice(context.Background(), "u1", dto.SuggestPriceRequest{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, usecase.PriceSourceHeuristic, resp.Source)
	assert.True(t, decimal.NewFromInt(13000).Equal(resp.SuggestedPrice))
	assert.NotEmpty(t, resp.Warning)
}

func TestAI_SuggestPrice_ProveedorCaido_Heuristica(t *testing.T) {
	uc, _, products := newAI(t, &fakeLLM{err: domain.ErrAIUnavailable})
	products.EXPECT().GetByID(gomock.Any(), "p1").Return(productWith(i64(20000), nil), nil)

	resp, err := uc.SuggestPrice(context.Background(), "u1", dto.SuggestPriceRequest{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, usecase.PriceSourceHeuristic, resp.Source)
	assert.True(t, decimal.NewFromInt(20000).Equal(resp.SuggestedPrice))
}

func TestAI_SuggestPrice_ProductoAjeno(t *testing.T) {
	llm := &fakeLLM{text: "Rp 1"}
	uc, _, products := newAI(t, llm)
	p := productWith(nil, nil)
	p.UserID = "otro"
	products.EXPECT().GetByID(gomock.Any(), "p1").Return(p, nil)

	_, err := uc.SuggestPrice(context.Background(), "u1", dto.SuggestPriceRequest{ProductID: "p1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, llm.calls)
}

func TestParseRupiah(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Rp 15.000", "15000", true},
		{"harga rp15,000 saja", "15000", true},
		{"Rp. 12500", "12500", true},
		{"Rp 1.250.000,50", "1250000.5", true},
		{"antara Rp 10.000 dan Rp 12.000", "10000", true},
		{"sekitar 15 ribu", "0", false},
	}
	for _, tc := range cases {
		got, ok := usecase.ParseRupiah(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "%s: got %s", tc.in, got)
	}
}

func TestHeuristicPrice(t *testing.T) {
	assert.True(t, decimal.NewFromInt(13000).Equal(usecase.HeuristicPrice(productWith(i64(20000), i64(10000)))))
	assert.True(t, decimal.NewFromInt(20000).Equal(usecase.HeuristicPrice(productWith(i64(20000), nil))))
	assert.True(t, decimal.Zero.Equal(usecase.HeuristicPrice(productWith(nil, nil))))
}
