// Package vector provides the Qdrant-backed similarity index used to
// corroborate classifier verdicts against previously confirmed fraud content.
package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/infrastructure/config"
	"github.com/dyleth/fraudshield/internal/service/detection"
)

// Index is a similarity index over embedded fraud content. A disabled index
// reports Enabled() == false and the detection pipeline skips corroboration.
type Index struct {
	client     *qdrant.Client
	collection string
	logger     *zap.Logger
}

// Disabled returns an index that is permanently off.
func Disabled() *Index {
	return &Index{}
}

// NewIndex connects to Qdrant and ensures the collection exists.
func NewIndex(ctx context.Context, cfg *config.QdrantConfig, logger *zap.Logger) (*Index, error) {
	if !cfg.Enabled {
		logger.Info("similarity index disabled by configuration")
		return Disabled(), nil
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant connection failed: %w", err)
	}

	idx := &Index{
		client:     client,
		collection: cfg.Collection,
		logger:     logger,
	}

	if err := idx.ensureCollection(ctx, cfg.VectorSize); err != nil {
		return nil, err
	}

	logger.Info("similarity index initialized",
		zap.String("collection", cfg.Collection),
		zap.Uint64("vector_size", cfg.VectorSize))

	return idx, nil
}

func (i *Index) ensureCollection(ctx context.Context, vectorSize uint64) error {
	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", i.collection, err)
	}
	if exists {
		return nil
	}

	err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: i.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", i.collection, err)
	}

	return nil
}

// Enabled reports whether the index is reachable and configured.
func (i *Index) Enabled() bool {
	return i != nil && i.client != nil
}

// Search returns up to limit nearest neighbors of the vector, with scores
// and payloads.
func (i *Index) Search(ctx context.Context, vec []float32, limit int) ([]detection.Neighbor, error) {
	points, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrant.NewQuery(vec...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	neighbors := make([]detection.Neighbor, 0, len(points))
	for _, p := range points {
		neighbors = append(neighbors, detection.Neighbor{
			ID:      pointID(p.Id),
			Score:   p.Score,
			Payload: payloadMap(p.Payload),
		})
	}

	return neighbors, nil
}

// Upsert stores a vector with its payload under a fresh point id.
func (i *Index) Upsert(ctx context.Context, vec []float32, payload map[string]interface{}) error {
	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(uuid.NewString()),
				Vectors: qdrant.NewVectors(vec...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("vector upsert failed: %w", err)
	}

	return nil
}

// Close tears down the Qdrant connection.
func (i *Index) Close() error {
	if i.client == nil {
		return nil
	}
	return i.client.Close()
}

func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return fmt.Sprintf("%d", id.GetNum())
}

func payloadMap(payload map[string]*qdrant.Value) map[string]interface{} {
	if len(payload) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		out[k] = valueToInterface(v)
	}
	return out
}

func valueToInterface(v *qdrant.Value) interface{} {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}
