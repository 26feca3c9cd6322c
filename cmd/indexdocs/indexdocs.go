package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"dsatutor/config"
	"dsatutor/models"
	"dsatutor/services/knowledge"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/protobuf/types/known/structpb"
)

const indexNamespace = "dsa-tutor-docs"

func main() {
	log.Printf("[INFO] Starting knowledge corpus indexing")

	cfg := config.Load()

	if cfg.PineconeAPIKey == "" {
		log.Fatal("[ERROR] PINECONE_API_KEY environment variable is required")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("[ERROR] OPENAI_API_KEY environment variable is required")
	}

	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(cfg.OpenAIAPIKey),
	)
	if err != nil {
		log.Fatalf("[ERROR] Failed to create OpenAI client: %v", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		log.Fatalf("[ERROR] Failed to create embedder: %v", err)
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: cfg.PineconeAPIKey,
	})
	if err != nil {
		log.Fatalf("[ERROR] Failed to create Pinecone client: %v", err)
	}

	if err := ensurePineconeIndex(pc, cfg.PineconeIndexName); err != nil {
		log.Fatalf("[ERROR] Failed to ensure Pinecone index: %v", err)
	}

	store := knowledge.NewStore(nil)
	documents := store.Documents()
	log.Printf("[INFO] Indexing %d corpus documents", len(documents))

	for i, doc := range documents {
		if err := indexDocument(pc, cfg.PineconeIndexName, embedder, i, doc); err != nil {
			log.Printf("[ERROR] Failed to index document %d (%s): %v", i, doc.Topic, err)
			continue
		}
		log.Printf("[INFO] Indexed document %d/%d (topic: %s, type: %s)", i+1, len(documents), doc.Topic, doc.Type)
	}

	log.Printf("[INFO] Knowledge corpus indexing completed")
}

func ensurePineconeIndex(pc *pinecone.Client, indexName string) error {
	ctx := context.Background()

	indexes, err := pc.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	for _, idx := range indexes {
		if idx.Name == indexName {
			log.Printf("[INFO] Index %s already exists", indexName)
			return nil
		}
	}

	log.Printf("[INFO] Creating Pinecone index: %s", indexName)
	dimension := int32(1536) // OpenAI ada-002 embedding dimension
	deletionProtection := pinecone.DeletionProtectionDisabled
	metric := pinecone.Cosine

	_, err = pc.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               indexName,
		Dimension:          &dimension,
		Metric:             &metric,
		Cloud:              pinecone.Aws,
		Region:             "us-east-1",
		DeletionProtection: &deletionProtection,
		Tags:               &pinecone.IndexTags{"environment": "development", "project": "dsa-tutor"},
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	for {
		idx, err := pc.DescribeIndex(ctx, indexName)
		if err != nil {
			return fmt.Errorf("failed to describe index: %w", err)
		}
		if idx.Status.Ready {
			log.Printf("[INFO] Index %s is ready", indexName)
			break
		}
		log.Printf("[INFO] Waiting for index %s to be ready...", indexName)
		time.Sleep(10 * time.Second)
	}

	return nil
}

func indexDocument(pc *pinecone.Client, indexName string, embedder embeddings.Embedder, position int, doc models.Document) error {
	ctx := context.Background()

	vectorValues, err := embedder.EmbedDocuments(ctx, []string{doc.Content})
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	metadata := map[string]any{
		"content":    doc.Content,
		"topic":      string(doc.Topic),
		"type":       doc.Type,
		"created_at": time.Now().Format(time.RFC3339),
	}
	if doc.ProblemID != "" {
		metadata["problem_id"] = doc.ProblemID
	}
	if doc.Difficulty != "" {
		metadata["difficulty"] = doc.Difficulty
	}

	metadataStruct, err := structpb.NewStruct(metadata)
	if err != nil {
		return fmt.Errorf("failed to create metadata struct: %w", err)
	}

	vectorID := fmt.Sprintf("%s_doc_%d", doc.Type, position)
	if doc.ProblemID != "" {
		vectorID = fmt.Sprintf("problem_%s", doc.ProblemID)
	}

	vector := &pinecone.Vector{
		Id:       vectorID,
		Values:   &vectorValues[0],
		Metadata: metadataStruct,
	}

	idxDesc, err := pc.DescribeIndex(ctx, indexName)
	if err != nil {
		return fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := pc.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: indexNamespace,
	})
	if err != nil {
		return fmt.Errorf("failed to create index connection: %w", err)
	}

	if _, err := idxConn.UpsertVectors(ctx, []*pinecone.Vector{vector}); err != nil {
		return fmt.Errorf("failed to upsert vector: %w", err)
	}

	return nil
}
