package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

type ESConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

// ESSink indexes one document per run. The cap is enforced by the Recent
// query window rather than deletion; old runs age out of every view.
type ESSink struct {
	client *elasticsearch.Client
	index  string
}

func NewESSink(cfg ESConfig) (*ESSink, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return &ESSink{client: client, index: cfg.IndexName}, nil
}

func (s *ESSink) Append(ctx context.Context, e Entry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithDocumentID(e.RunID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index history entry: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index history entry: %s", res.String())
	}
	return nil
}

func (s *ESSink) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > maxEntries {
		limit = maxEntries
	}

	query := map[string]any{
		"size": limit,
		"sort": []map[string]any{
			{"stamp": map[string]string{"order": "desc"}},
		},
		"query": map[string]any{"match_all": map[string]any{}},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search history: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source Entry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}

	entries := make([]Entry, len(parsed.Hits.Hits))
	for i, h := range parsed.Hits.Hits {
		entries[i] = h.Source
	}
	return entries, nil
}

func (s *ESSink) Close() {}
