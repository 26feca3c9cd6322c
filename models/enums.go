package models

import "fmt"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type Topic string

const (
	TopicArrays             Topic = "Arrays"
	TopicLinkedLists        Topic = "Linked Lists"
	TopicTrees              Topic = "Trees"
	TopicGraphs             Topic = "Graphs"
	TopicSorting            Topic = "Sorting"
	TopicSearching          Topic = "Searching"
	TopicDynamicProgramming Topic = "Dynamic Programming"
	TopicRecursion          Topic = "Recursion"
	TopicBacktracking       Topic = "Backtracking"
	TopicQueues             Topic = "Queues"
	TopicStacks             Topic = "Stacks"
)

// AllTopics is the fixed set of subject areas the tutor knows about.
// Mastery maps are initialized with one entry per topic.
var AllTopics = []Topic{
	TopicArrays,
	TopicLinkedLists,
	TopicTrees,
	TopicGraphs,
	TopicSorting,
	TopicSearching,
	TopicDynamicProgramming,
	TopicRecursion,
	TopicBacktracking,
	TopicQueues,
	TopicStacks,
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("invalid difficulty: %q (must be Easy, Medium or Hard)", s)
}

func ParseTopic(s string) (Topic, error) {
	for _, topic := range AllTopics {
		if Topic(s) == topic {
			return topic, nil
		}
	}
	return "", fmt.Errorf("invalid topic: %q", s)
}
