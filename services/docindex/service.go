package docindex

import (
	"context"
	"fmt"
	"log"

	"dsatutor/models"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const indexNamespace = "dsa-tutor-docs"

type Service struct {
	client    *pinecone.Client
	embedder  embeddings.Embedder
	indexName string
}

func NewService(pineconeAPIKey, openaiAPIKey, indexName string) (*Service, error) {
	log.Printf("[INFO] Initializing document index service")

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: pineconeAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(openaiAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	service := &Service{
		client:    pc,
		embedder:  embedder,
		indexName: indexName,
	}

	log.Printf("[INFO] Document index service initialized for index %q", indexName)
	return service, nil
}

// QueryDocuments runs a similarity search over the indexed corpus and
// returns the matches most-similar first.
func (s *Service) QueryDocuments(ctx context.Context, query string, limit int) ([]models.Document, error) {
	log.Printf("[INFO] Querying document index: %.80s (limit %d)", query, limit)

	idxDesc, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: indexNamespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	result, err := idxConn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          queryVector,
		TopK:            uint32(limit),
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	log.Printf("[INFO] Document index returned %d matches", len(result.Matches))

	documents := make([]models.Document, 0, len(result.Matches))
	for _, match := range result.Matches {
		if match.Vector.Metadata == nil {
			continue
		}

		metadata := match.Vector.Metadata.AsMap()
		doc := models.Document{}

		if content, ok := metadata["content"].(string); ok {
			doc.Content = content
		}
		if topic, ok := metadata["topic"].(string); ok {
			doc.Topic = models.Topic(topic)
		}
		if docType, ok := metadata["type"].(string); ok {
			doc.Type = docType
		}
		if problemID, ok := metadata["problem_id"].(string); ok {
			doc.ProblemID = problemID
		}
		if difficulty, ok := metadata["difficulty"].(string); ok {
			doc.Difficulty = difficulty
		}

		if doc.Content != "" {
			documents = append(documents, doc)
		}
	}

	return documents, nil
}
