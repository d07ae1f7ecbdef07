package catalogstore

import (
	"context"
	"strings"

	"github.com/listafacil/backend/internal/domain"
)

// fixedProduct pairs a product with its hand-curated raw keyword list.
// Unlike generated keywords these are whole phrases, matched by substring.
type fixedProduct struct {
	product  domain.Product
	keywords []string
}

// Fixed is the no-persistence fallback catalog: a small built-in product
// list matched by raw substring containment. It has no prefix index and
// scans the whole catalog per call — O(catalog size x query words) —
// acceptable only at this size.
type Fixed struct {
	products []fixedProduct
}

// NewFixedCatalog returns the built-in school-supplies catalog.
func NewFixedCatalog() *Fixed {
	entries := []struct {
		id       string
		name     string
		keywords []string
	}{
		{"prod-001", "Cuaderno Profesional 100 Hojas Raya", []string{"cuaderno", "libreta", "raya"}},
		{"prod-002", "Cuaderno Profesional 100 Hojas Cuadro 7mm", []string{"cuaderno", "libreta", "cuadro chico", "c7"}},
		{"prod-003", "Lápiz Mirado No. 2", []string{"lapiz", "grafito"}},
		{"prod-004", "Caja de 12 Lápices de Colores", []string{"colores", "lapices de colores", "caja 12"}},
		{"prod-005", "Caja de 24 Lápices de Colores", []string{"colores", "lapices de colores", "caja 24"}},
		{"prod-006", "Juego de Geometría Flexible", []string{"juego de geometria", "reglas", "escuadras"}},
		{"prod-007", "Pegamento en Barra 8g", []string{"pegamento", "barra", "pritt"}},
		{"prod-008", "Tijeras Escolares Punta Roma", []string{"tijeras", "punta roma"}},
		{"prod-009", "Goma de Borrar Blanca", []string{"goma", "borrador"}},
		{"prod-010", "Sacapuntas con Depósito", []string{"sacapuntas", "afilador"}},
		{"prod-011", "Plumones Lavables (10 piezas)", []string{"plumones", "marcadores", "crayola"}},
		{"prod-012", "Mochila Escolar Rueditas", []string{"mochila", "ruedas"}},
	}

	catalog := &Fixed{products: make([]fixedProduct, 0, len(entries))}
	for _, e := range entries {
		catalog.products = append(catalog.products, fixedProduct{
			product:  domain.Product{ProductID: e.id, ProductName: e.name},
			keywords: e.keywords,
		})
	}
	return catalog
}

// Upsert is rejected: the fallback catalog cannot be ingested into.
func (f *Fixed) Upsert(ctx context.Context, product domain.Product) error {
	return domain.ErrReadOnlyCatalog
}

// UpsertBatch is rejected: the fallback catalog cannot be ingested into.
func (f *Fixed) UpsertBatch(ctx context.Context, products []domain.Product) error {
	return domain.ErrReadOnlyCatalog
}

// FindByAnyKeyword matches a product when any query token is a substring of
// the product name, or equals / substring-matches one of its raw keywords.
func (f *Fixed) FindByAnyKeyword(ctx context.Context, tokens []string, limit int) ([]domain.Product, error) {
	if len(tokens) == 0 || limit <= 0 {
		return nil, nil
	}

	var products []domain.Product
	for _, fp := range f.products {
		if matchesFixed(&fp, tokens) {
			products = append(products, fp.product)
			if len(products) >= limit {
				break
			}
		}
	}
	return products, nil
}

func matchesFixed(fp *fixedProduct, tokens []string) bool {
	nameLower := strings.ToLower(fp.product.ProductName)
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if strings.Contains(nameLower, token) {
			return true
		}
		for _, kw := range fp.keywords {
			if strings.Contains(kw, token) || strings.Contains(token, kw) {
				return true
			}
		}
	}
	return false
}
