package knowledge

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"dsatutor/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

const topK = 5

// Retriever is the optional vector-search backend. When attached, queries
// go through it first and fall back to local ranking.
type Retriever interface {
	QueryDocuments(ctx context.Context, query string, limit int) ([]models.Document, error)
}

// Store holds the fixed corpus of topic primers and worked problems.
// The document set is read-only after construction.
type Store struct {
	documents []models.Document
	problems  map[string]SampleProblem
	retriever Retriever
}

func NewStore(retriever Retriever) *Store {
	documents, problems := loadDocuments()

	store := &Store{
		documents: documents,
		problems:  make(map[string]SampleProblem, len(problems)),
		retriever: retriever,
	}
	for _, problem := range problems {
		store.problems[problem.ID] = problem
	}

	log.Printf("[INFO] Knowledge store loaded with %d documents (%d worked problems)", len(documents), len(problems))
	return store
}

// Query returns up to 5 documents ordered most-similar first. An empty
// result is valid: retrieval conditions prompts but is never required,
// so callers fall back to unconditioned generation.
func (s *Store) Query(ctx context.Context, question string, topic models.Topic) []models.Document {
	if s.retriever != nil {
		query := question
		if topic != "" {
			query = fmt.Sprintf("%s [Topic: %s]", question, topic)
		}

		docs, err := s.retriever.QueryDocuments(ctx, query, topK)
		if err != nil {
			log.Printf("[WARN] Vector retrieval failed, falling back to local ranking: %v", err)
		} else if len(docs) > 0 {
			return docs
		}
	}

	return s.rankLocal(question, topic)
}

// Problem looks up a worked problem from the corpus by id.
func (s *Store) Problem(id string) (SampleProblem, bool) {
	problem, ok := s.problems[id]
	return problem, ok
}

func (s *Store) Documents() []models.Document {
	return s.documents
}

type scoredDocument struct {
	doc   models.Document
	score int
}

func (s *Store) rankLocal(question string, topic models.Topic) []models.Document {
	terms := queryTerms(question)
	if len(terms) == 0 && topic == "" {
		return nil
	}

	scored := make([]scoredDocument, 0, len(s.documents))
	for _, doc := range s.documents {
		score := documentScore(doc, terms, topic)
		if score > 0 {
			scored = append(scored, scoredDocument{doc: doc, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	return lo.Map(scored, func(sd scoredDocument, _ int) models.Document {
		return sd.doc
	})
}

func documentScore(doc models.Document, terms []string, topic models.Topic) int {
	score := 0

	words := contentWords(doc.Content)
	for _, term := range terms {
		if len(fuzzy.Find(term, words)) > 0 {
			score++
			continue
		}
		if fuzzy.MatchFold(term, doc.Content) {
			score++
		}
	}

	// Topic tag outweighs any single term match.
	if topic != "" && doc.Topic == topic {
		score += 3
	}

	return score
}

func queryTerms(question string) []string {
	fields := strings.Fields(strings.ToLower(question))

	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		term := strings.Trim(field, ".,!?;:()[]{}\"'")
		if len(term) > 2 && !stopWords[term] {
			terms = append(terms, term)
		}
	}
	return terms
}

func contentWords(content string) []string {
	fields := strings.Fields(strings.ToLower(content))

	words := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.Trim(field, ".,!?;:()[]{}\"'")
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "about": true, "with": true,
	"what": true, "how": true, "introduction": true, "explain": true,
	"concept": true, "concepts": true, "related": true, "problem": true,
}
