package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/harvestbites/storefront/internal/models"
	"github.com/harvestbites/storefront/pkg/logging"
)

// IndexProducts pushes the catalog into the product index. Indexing is
// best effort: the catalog is still served from the database when the
// index is unavailable.
func IndexProducts(ctx context.Context, es *elasticsearch.Client, index string, products []models.Product) error {
	l := logging.FromContext(ctx).With("svc", "search.index")

	for i := range products {
		payload, err := json.Marshal(products[i])
		if err != nil {
			return fmt.Errorf("marshal product %d: %w", products[i].ID, err)
		}

		res, err := es.Index(
			index,
			bytes.NewReader(payload),
			es.Index.WithContext(ctx),
			es.Index.WithDocumentID(strconv.FormatUint(uint64(products[i].ID), 10)),
		)
		if err != nil {
			return fmt.Errorf("index product %d: %w", products[i].ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index product %d: %s", products[i].ID, res.Status())
		}
	}

	l.Info("catalog indexed", "count", len(products))
	return nil
}

func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "benefit", "tags", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode response: %w", err)
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return r.Hits.Total.Value, products, nil
}
