package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dsatutor/models"
)

type fakeRetriever struct {
	docs    []models.Document
	err     error
	queries []string
}

func (r *fakeRetriever) QueryDocuments(ctx context.Context, query string, limit int) ([]models.Document, error) {
	r.queries = append(r.queries, query)
	return r.docs, r.err
}

func TestQueryCapsResults(t *testing.T) {
	store := NewStore(nil)

	// "complexity" appears in the linked list primer and every worked
	// problem document, so more than five documents match.
	results := store.Query(context.Background(), "complexity", "")

	if len(results) != 5 {
		t.Errorf("result count = %d, want 5", len(results))
	}
}

func TestQueryRanksTopicTaggedDocumentsFirst(t *testing.T) {
	store := NewStore(nil)

	results := store.Query(context.Background(), "complexity", models.TopicGraphs)

	if len(results) < 2 {
		t.Fatalf("result count = %d, want at least 2", len(results))
	}
	for i := 0; i < 2; i++ {
		if results[i].Topic != models.TopicGraphs {
			t.Errorf("result %d topic = %s, want %s", i, results[i].Topic, models.TopicGraphs)
		}
	}
}

func TestQueryNoMatchReturnsEmpty(t *testing.T) {
	store := NewStore(nil)

	tests := []struct {
		name     string
		question string
	}{
		{name: "gibberish terms", question: "qqzz vvww"},
		{name: "stop words only", question: "the and for"},
		{name: "empty question", question: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := store.Query(context.Background(), tt.question, "")
			if len(results) != 0 {
				t.Errorf("result count = %d, want 0", len(results))
			}
		})
	}
}

func TestQueryUsesRetrieverResults(t *testing.T) {
	retriever := &fakeRetriever{
		docs: []models.Document{
			{Content: "vector match", Topic: models.TopicArrays, Type: models.DocumentTypeConcept},
		},
	}
	store := NewStore(retriever)

	results := store.Query(context.Background(), "hash maps", models.TopicArrays)

	if len(results) != 1 || results[0].Content != "vector match" {
		t.Fatalf("results = %v, want the retriever's document", results)
	}
	if len(retriever.queries) != 1 {
		t.Fatalf("retriever queries = %d, want 1", len(retriever.queries))
	}
	if !strings.Contains(retriever.queries[0], "[Topic: Arrays]") {
		t.Errorf("retriever query = %q, want topic suffix", retriever.queries[0])
	}
}

func TestQueryFallsBackWhenRetrieverFails(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("connection refused")}
	store := NewStore(retriever)

	results := store.Query(context.Background(), "complexity", "")

	if len(results) == 0 {
		t.Fatal("expected local ranking results after retriever error")
	}
	for _, doc := range results {
		if doc.Type != models.DocumentTypeConcept && doc.Type != models.DocumentTypeProblem {
			t.Errorf("unexpected document type %q in local results", doc.Type)
		}
	}
}

func TestQueryFallsBackWhenRetrieverIsEmpty(t *testing.T) {
	retriever := &fakeRetriever{}
	store := NewStore(retriever)

	results := store.Query(context.Background(), "complexity", "")

	if len(results) == 0 {
		t.Fatal("expected local ranking results when the retriever returns nothing")
	}
}

func TestProblemLookup(t *testing.T) {
	store := NewStore(nil)

	problem, ok := store.Problem("two_sum")
	if !ok {
		t.Fatal("two_sum should be in the corpus")
	}
	if problem.Title != "Two Sum" || problem.Topic != models.TopicArrays {
		t.Errorf("problem = %s (%s), want Two Sum (Arrays)", problem.Title, problem.Topic)
	}

	if _, ok := store.Problem("no_such_problem"); ok {
		t.Error("unknown id should not resolve")
	}
}
