package catalogstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/listafacil/backend/internal/domain"
)

// Bucket layout: "products" maps productId -> JSON document; "keywords"
// holds one sub-bucket per keyword whose keys are the productIds carrying
// that keyword.
var (
	bucketProducts = []byte("products")
	bucketKeywords = []byte("keywords")
)

// storedProduct is the persisted catalog entry shape.
type storedProduct struct {
	ProductName    string   `json:"productName"`
	SearchKeywords []string `json:"searchKeywords"`
}

// BoltIndex implements domain.CatalogIndex backed by bbolt. Writes are
// transactional — a crash mid-batch cannot leave the inverted index
// inconsistent with the forward map.
type BoltIndex struct {
	db *bolt.DB
}

// NewBoltIndex opens (or creates) the catalog database at the given path.
func NewBoltIndex(path string) (*BoltIndex, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketProducts); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketKeywords)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}
	return &BoltIndex{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltIndex) Close() error {
	return s.db.Close()
}

// Upsert replaces the entry for product.ProductID in one transaction.
func (s *BoltIndex) Upsert(ctx context.Context, product domain.Product) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return upsertProduct(tx, product)
	})
}

// UpsertBatch writes a whole chunk in a single transaction. Callers keep
// chunks within the store's batch ceiling.
func (s *BoltIndex) UpsertBatch(ctx context.Context, products []domain.Product) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for i := range products {
			if err := upsertProduct(tx, products[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertProduct(tx *bolt.Tx, product domain.Product) error {
	if product.ProductID == "" {
		return fmt.Errorf("upsert: empty productId")
	}
	forward := tx.Bucket(bucketProducts)
	inverted := tx.Bucket(bucketKeywords)
	id := []byte(product.ProductID)

	// Drop postings of the previous version first; an upsert is a full
	// overwrite, not a merge.
	if prev := forward.Get(id); prev != nil {
		var old storedProduct
		if err := json.Unmarshal(prev, &old); err == nil {
			for _, kw := range old.SearchKeywords {
				if kb := inverted.Bucket([]byte(kw)); kb != nil {
					if err := kb.Delete(id); err != nil {
						return err
					}
				}
			}
		}
	}

	doc, err := json.Marshal(storedProduct{
		ProductName:    product.ProductName,
		SearchKeywords: product.SearchKeywords,
	})
	if err != nil {
		return err
	}
	if err := forward.Put(id, doc); err != nil {
		return err
	}

	for _, kw := range product.SearchKeywords {
		kb, err := inverted.CreateBucketIfNotExists([]byte(kw))
		if err != nil {
			return err
		}
		if err := kb.Put(id, []byte{}); err != nil {
			return err
		}
	}
	return nil
}

// FindByAnyKeyword returns up to limit products having at least one keyword
// that equals a probed token or is a prefix of one (see probeKeys). Exact
// hits for a token are collected before its prefix hits.
func (s *BoltIndex) FindByAnyKeyword(ctx context.Context, tokens []string, limit int) ([]domain.Product, error) {
	if len(tokens) == 0 || limit <= 0 {
		return nil, nil
	}

	var products []domain.Product
	seen := make(map[string]struct{})

	err := s.db.View(func(tx *bolt.Tx) error {
		forward := tx.Bucket(bucketProducts)
		inverted := tx.Bucket(bucketKeywords)

		for _, token := range tokens {
			for _, probe := range probeKeys(token) {
				kb := inverted.Bucket([]byte(probe))
				if kb == nil {
					continue
				}
				c := kb.Cursor()
				for k, _ := c.First(); k != nil; k, _ = c.Next() {
					id := string(k)
					if _, ok := seen[id]; ok {
						continue
					}
					seen[id] = struct{}{}

					doc := forward.Get(k)
					if doc == nil {
						continue
					}
					var sp storedProduct
					if err := json.Unmarshal(doc, &sp); err != nil {
						return fmt.Errorf("decode product %s: %w", id, err)
					}
					products = append(products, domain.Product{
						ProductID:      id,
						ProductName:    sp.ProductName,
						SearchKeywords: sp.SearchKeywords,
					})
					if len(products) >= limit {
						return nil
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}
