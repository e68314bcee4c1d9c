package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/spectacles/vertex-dashboards/internal/models"
	"github.com/spectacles/vertex-dashboards/internal/services"
)

const (
	summarizersCollection = "summarizers"
	receiptsCollection    = "receipts"
	summariesCollection   = "summaries"
)

// NewFirestoreClient creates a Firestore client for the given project,
// optionally against a named database. It centralizes client creation for
// all services.
func NewFirestoreClient(ctx context.Context, projectID, databaseID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	if databaseID != "" {
		client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
		return client, nil
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// ConfigStore persists summarizer configs in the summarizers collection,
// one document per summarizer id.
type ConfigStore struct {
	client *firestore.Client
}

func NewConfigStore(client *firestore.Client) *ConfigStore {
	return &ConfigStore{client: client}
}

func (s *ConfigStore) Put(ctx context.Context, cfg models.Summarizer) error {
	if _, err := s.client.Collection(summarizersCollection).Doc(cfg.ID).Set(ctx, cfg); err != nil {
		return fmt.Errorf("failed to write summarizer %s: %w", cfg.ID, err)
	}
	return nil
}

func (s *ConfigStore) Get(ctx context.Context, id string) (*models.Summarizer, error) {
	snap, err := s.client.Collection(summarizersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summarizer %s: %w", id, err)
	}
	var cfg models.Summarizer
	if err := snap.DataTo(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode summarizer %s: %w", id, err)
	}
	return &cfg, nil
}

func (s *ConfigStore) List(ctx context.Context) ([]models.Summarizer, error) {
	var out []models.Summarizer
	iter := s.client.Collection(summarizersCollection).Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list summarizers: %w", err)
		}
		var cfg models.Summarizer
		if err := snap.DataTo(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode summarizer %s: %w", snap.Ref.ID, err)
		}
		out = append(out, cfg)
	}
	return out, nil
}

func (s *ConfigStore) Delete(ctx context.Context, id string) error {
	if _, err := s.client.Collection(summarizersCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete summarizer %s: %w", id, err)
	}
	return nil
}

// Ping verifies Firestore connectivity for the health endpoint.
func (s *ConfigStore) Ping(ctx context.Context) error {
	_, err := s.client.Collections(ctx).Next()
	if err == iterator.Done {
		return nil
	}
	return err
}

// Ledger is the Firestore-backed append-only log of receipts and
// summaries. Document ids are supplied by the caller; Set overwrites, so
// re-delivery within the same second converges on one entry.
type Ledger struct {
	client *firestore.Client
}

func NewLedger(client *firestore.Client) *Ledger {
	return &Ledger{client: client}
}

func (l *Ledger) AppendReceipt(ctx context.Context, key string, r models.Receipt) error {
	if _, err := l.client.Collection(receiptsCollection).Doc(key).Set(ctx, r); err != nil {
		return fmt.Errorf("failed to write receipt %s: %w", key, err)
	}
	return nil
}

func (l *Ledger) AppendSummary(ctx context.Context, key string, s models.Summary) error {
	if _, err := l.client.Collection(summariesCollection).Doc(key).Set(ctx, s); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", key, err)
	}
	return nil
}

// HasReceipt reports whether a receipt already exists under the given key.
func (l *Ledger) HasReceipt(ctx context.Context, key string) (bool, error) {
	_, err := l.client.Collection(receiptsCollection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read receipt %s: %w", key, err)
	}
	return true, nil
}

func (l *Ledger) LatestReceipt(ctx context.Context, summarizerID string) (*models.Receipt, error) {
	var r models.Receipt
	if err := l.latest(ctx, receiptsCollection, summarizerID, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (l *Ledger) LatestSummary(ctx context.Context, summarizerID string) (*models.Summary, error) {
	var s models.Summary
	if err := l.latest(ctx, summariesCollection, summarizerID, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// latest fetches the most recent entry for a summarizer from the given
// collection, ordered by timestamp descending with limit one.
func (l *Ledger) latest(ctx context.Context, collection, summarizerID string, out interface{}) error {
	docs, err := l.client.Collection(collection).
		Where("summarizer_id", "==", summarizerID).
		OrderBy("timestamp", firestore.Desc).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to query latest %s for %s: %w", collection, summarizerID, err)
	}
	if len(docs) == 0 {
		return services.ErrNotFound
	}
	if err := docs[0].DataTo(out); err != nil {
		return fmt.Errorf("failed to decode %s document %s: %w", collection, docs[0].Ref.ID, err)
	}
	return nil
}
