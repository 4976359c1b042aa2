// Package search backs the admin console's product search with Elasticsearch.
// The index is a read model refreshed from the API's product list.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
)

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

type Index struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
}

// NewIndex connects and checks the cluster answers.
func NewIndex(ctx context.Context, cfg Config, l *slog.Logger) (*Index, error) {
	l.Info("es_connecting", "url", cfg.URL, "index", cfg.Index)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		l.Error("es_info_failed", "status", res.StatusCode, "body", string(body))
		return nil, fmt.Errorf("es info: %s", res.Status())
	}

	l.Info("es_connected")
	return &Index{es: client, index: cfg.Index, log: l}, nil
}
