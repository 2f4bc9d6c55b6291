// Package bigquery provides a Google BigQuery adapter for refdash.
package bigquery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/leapstack-labs/refdash/pkg/adapter"
	"github.com/leapstack-labs/refdash/pkg/core"
)

// ErrProjectRequired is returned when no GCP project is configured.
var ErrProjectRequired = errors.New("bigquery: target.project is required")

// Adapter implements the adapter.Adapter interface for BigQuery.
// Queries use positional ? parameters.
type Adapter struct {
	client *bigquery.Client
	cfg    adapter.Config
	logger *slog.Logger
}

// New creates a new BigQuery adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{logger: logger}
}

// Connect creates a BigQuery client for cfg.Project.
// Credentials come from CredentialsJSON, CredentialsFile, or application default credentials.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if cfg.Project == "" {
		return ErrProjectRequired
	}

	client, err := bigquery.NewClient(ctx, cfg.Project, clientOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to create bigquery client: %w", err)
	}
	if loc, ok := cfg.Options["location"]; ok {
		client.Location = loc
	}

	a.logger.Debug("bigquery client ready", slog.String("project", cfg.Project))

	a.client = client
	a.cfg = cfg
	return nil
}

func clientOptions(cfg adapter.Config) []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	return opts
}

// Close releases the client.
func (a *Adapter) Close() error {
	if a.client == nil {
		return nil
	}
	a.logger.Debug("closing bigquery client")
	err := a.client.Close()
	a.client = nil
	return err
}

// Exec runs a statement and waits for the job to finish.
func (a *Adapter) Exec(ctx context.Context, sql string, args ...any) error {
	if a.client == nil {
		return core.ErrNotConnected
	}
	job, err := a.query(sql, args).Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query runs a query and materializes every row, converting nested records to maps.
func (a *Adapter) Query(ctx context.Context, sql string, args ...any) (*core.Table, error) {
	if a.client == nil {
		return nil, core.ErrNotConnected
	}

	it, err := a.query(sql, args).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	table := &core.Table{}
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating rows: %w", err)
		}
		table.Rows = append(table.Rows, normalizeRow(it.Schema, row))
	}
	table.Columns = columnNames(it.Schema)

	return table, nil
}

func (a *Adapter) query(sql string, args []any) *bigquery.Query {
	q := a.client.Query(sql)
	for _, arg := range args {
		q.Parameters = append(q.Parameters, bigquery.QueryParameter{Value: arg})
	}
	return q
}

// DialectConfig returns the static dialect configuration.
func (a *Adapter) DialectConfig() *core.DialectConfig {
	return Dialect.Config()
}

// IsConnected returns true if a client has been created.
func (a *Adapter) IsConnected() bool {
	return a.client != nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
