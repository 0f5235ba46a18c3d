package weaviate

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"faqrag/src/core/faq"
)

// ChunkIndex stores FAQ chunks with caller-supplied vectors in a
// Weaviate class and answers near-vector queries. One index maps to one
// collection (one class). The index is only written at build time;
// queries treat it as read-only.
type ChunkIndex struct {
	client    *weaviate.Client
	className string
}

func NewChunkIndex(client *weaviate.Client, collection string) *ChunkIndex {
	return &ChunkIndex{
		client:    client,
		className: ClassName(collection),
	}
}

// ClassName maps a collection name onto a valid Weaviate class name,
// e.g. "hr_faq" becomes "FAQChunk_Hr_faq".
func ClassName(collection string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, collection)
	if cleaned == "" {
		cleaned = "Default"
	}
	return "FAQChunk_" + strings.ToUpper(cleaned[:1]) + cleaned[1:]
}

// EnsureSchema creates the chunk class if it does not exist yet. The
// vectorizer is "none": vectors always come from the embedding model.
func (i *ChunkIndex) EnsureSchema(ctx context.Context) error {
	exists, err := i.classExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	class := &models.Class{
		Class:      i.className,
		Vectorizer: "none",
		Properties: []*models.Property{
			{Name: "chunkId", DataType: []string{"string"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "content", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"string"}},
		},
	}

	if err := i.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class %s: %w", i.className, err)
	}
	return nil
}

// Drop deletes the whole class. Used for full rebuilds.
func (i *ChunkIndex) Drop(ctx context.Context) error {
	if err := i.client.Schema().ClassDeleter().WithClassName(i.className).Do(ctx); err != nil {
		return fmt.Errorf("failed to delete class %s: %w", i.className, err)
	}
	return nil
}

func (i *ChunkIndex) classExists(ctx context.Context) (bool, error) {
	schema, err := i.client.Schema().Getter().Do(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get schema: %w", err)
	}
	for _, class := range schema.Classes {
		if class.Class == i.className {
			return true, nil
		}
	}
	return false, nil
}

// Upsert batch-writes chunks with their vectors into the class.
func (i *ChunkIndex) Upsert(ctx context.Context, chunks []faq.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	objs := make([]*models.Object, len(chunks))
	for n, chunk := range chunks {
		objs[n] = &models.Object{
			Class:  i.className,
			Vector: vectors[n],
			Properties: map[string]interface{}{
				"chunkId":    chunk.ChunkID,
				"chunkIndex": chunk.Index,
				"content":    chunk.Text,
				"source":     chunk.Source,
			},
		}
	}

	resp, err := i.client.Batch().ObjectsBatcher().WithObjects(objs...).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to batch add chunks: %w", err)
	}
	if len(resp) == 0 {
		return fmt.Errorf("batch operation returned no results")
	}
	return nil
}

// Query performs a near-vector search and returns raw records with the
// Weaviate distance. Relevance normalization is the retriever's job.
func (i *ChunkIndex) Query(ctx context.Context, vector []float32, k int) ([]faq.IndexRecord, error) {
	fields := []graphql.Field{
		{Name: "chunkId"},
		{Name: "chunkIndex"},
		{Name: "content"},
		{Name: "source"},
		{Name: "_additional { distance }"},
	}

	nearVector := i.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	result, err := i.client.GraphQL().Get().
		WithClassName(i.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	var records []faq.IndexRecord
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return records, nil
	}
	objects, ok := data[i.className].([]interface{})
	if !ok {
		return records, nil
	}

	for _, obj := range objects {
		objMap, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}

		distance := 0.0
		if additional, ok := objMap["_additional"].(map[string]interface{}); ok {
			if d, ok := additional["distance"].(float64); ok {
				distance = d
			}
		}

		index := 0
		if idx, ok := objMap["chunkIndex"].(float64); ok {
			index = int(idx)
		}

		records = append(records, faq.IndexRecord{
			Chunk: faq.Chunk{
				ChunkID: stringProp(objMap, "chunkId"),
				Index:   index,
				Text:    stringProp(objMap, "content"),
				Source:  stringProp(objMap, "source"),
			},
			Distance: distance,
		})
	}

	return records, nil
}

// Count returns the number of stored chunks. A missing class counts as
// zero, the caller decides whether that is an error.
func (i *ChunkIndex) Count(ctx context.Context) (int64, error) {
	exists, err := i.classExists(ctx)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	result, err := i.client.GraphQL().Aggregate().
		WithClassName(i.className).
		WithFields(graphql.Field{
			Name:   "meta",
			Fields: []graphql.Field{{Name: "count"}},
		}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate count: %w", err)
	}

	aggregate, ok := result.Data["Aggregate"].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	rows, ok := aggregate[i.className].([]interface{})
	if !ok || len(rows) == 0 {
		return 0, nil
	}
	row, ok := rows[0].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	meta, ok := row["meta"].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	count, _ := meta["count"].(float64)
	return int64(count), nil
}

func stringProp(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}
