package knowledge

import (
	"fmt"
	"strings"

	"dsatutor/models"
)

// SampleProblem is a worked problem carried by the built-in corpus,
// including the reference solution used for comparisons.
type SampleProblem struct {
	ID              string
	Title           string
	Description     string
	Topic           models.Topic
	Difficulty      models.Difficulty
	OptimalSolution string
	TimeComplexity  string
	SpaceComplexity string
	Hints           []string
	Explanation     string
	SimilarProblems []string
}

var topicPrimers = map[models.Topic]string{
	models.TopicArrays: `Arrays are contiguous memory locations storing elements of the same type.

Key Concepts:
1. Indexing: O(1) access
2. Insertion/Deletion: O(n) worst-case
3. Memory: Contiguous, fixed size
4. Common operations: Traversal, search, rotation

Important Algorithms:
- Two Pointer Technique
- Sliding Window
- Prefix Sum
- Dutch National Flag

Common Problems:
- Maximum Subarray Sum (Kadane's Algorithm)
- Rotate Array
- Merge Sorted Arrays
- Find Missing Number`,

	models.TopicLinkedLists: `Linked Lists are linear data structures with nodes containing data and a pointer to the next node.

Types:
1. Singly Linked List
2. Doubly Linked List
3. Circular Linked List

Operations Complexity:
- Access: O(n)
- Insertion/Deletion at head: O(1)
- Insertion/Deletion at tail: O(n) without tail pointer

Important Techniques:
- Fast & Slow Pointers
- Reverse Linked List
- Merge Two Sorted Lists
- Detect Cycle

Common Patterns:
- Dummy Head Pattern
- In-place Reversal
- Two Pointers`,

	models.TopicTrees: `Trees are hierarchical data structures with a root node and children.

Binary Tree Types:
1. Full Binary Tree
2. Complete Binary Tree
3. Perfect Binary Tree
4. Balanced Binary Tree

Traversals:
- Pre-order: Root, Left, Right
- In-order: Left, Root, Right
- Post-order: Left, Right, Root
- Level-order (BFS)

Important Trees:
- Binary Search Tree (BST)
- AVL Tree (Self-balancing)
- Red-Black Tree
- Trie (Prefix Tree)
- Segment Tree
- Fenwick Tree (Binary Indexed Tree)

Common Algorithms:
- Tree Height/Depth
- Check if BST
- Lowest Common Ancestor
- Tree Diameter
- Serialize/Deserialize`,

	models.TopicGraphs: `Graphs consist of vertices (nodes) connected by edges.

Types:
1. Directed vs Undirected
2. Weighted vs Unweighted
3. Cyclic vs Acyclic

Representations:
- Adjacency Matrix
- Adjacency List
- Edge List

Traversal Algorithms:
- Breadth-First Search (BFS)
- Depth-First Search (DFS)

Shortest Path Algorithms:
- Dijkstra's (Non-negative weights)
- Bellman-Ford (Negative weights)
- Floyd-Warshall (All pairs)

Minimum Spanning Tree:
- Prim's Algorithm
- Kruskal's Algorithm

Topological Sort (for DAGs)
Cycle Detection
Strongly Connected Components (Kosaraju/Tarjan)`,

	models.TopicDynamicProgramming: `Dynamic Programming solves complex problems by breaking them into overlapping subproblems.

Key Principles:
1. Optimal Substructure
2. Overlapping Subproblems

Approaches:
- Top-down (Memoization)
- Bottom-up (Tabulation)

Common DP Patterns:
1. 0/1 Knapsack
2. Unbounded Knapsack
3. Fibonacci Pattern
4. Longest Common Subsequence
5. Longest Increasing Subsequence
6. Edit Distance
7. Palindromic Subsequences
8. Subset Sum

State Transition Steps:
1. Define dp array meaning
2. Find recurrence relation
3. Initialize base cases
4. Determine traversal order
5. Return result`,
}

func sampleProblems() []SampleProblem {
	return []SampleProblem{
		{
			ID:              "two_sum",
			Title:           "Two Sum",
			Description:     "Given an array of integers nums and an integer target, return indices of the two numbers such that they add up to target.",
			Topic:           models.TopicArrays,
			Difficulty:      models.DifficultyEasy,
			OptimalSolution: "Use a hash map to store number-index pairs, check the complement of each number",
			TimeComplexity:  "O(n)",
			SpaceComplexity: "O(n)",
			Hints: []string{
				"Think about what information you need to find quickly",
				"Can you use extra space to speed up lookups?",
				"What's the complement of each number?",
			},
			Explanation:     "Use a hash map to store each number and its index. For each number, calculate complement = target - num. If the complement exists in the hash map, return both indices.",
			SimilarProblems: []string{"Three Sum", "Four Sum", "Two Sum II - Sorted Array"},
		},
		{
			ID:              "reverse_linked_list",
			Title:           "Reverse Linked List",
			Description:     "Given the head of a singly linked list, reverse the list and return the new head.",
			Topic:           models.TopicLinkedLists,
			Difficulty:      models.DifficultyEasy,
			OptimalSolution: "Iterative reversal with three pointers",
			TimeComplexity:  "O(n)",
			SpaceComplexity: "O(1)",
			Hints: []string{
				"Think about what happens to the next pointer of each node",
				"You need to keep track of the previous node",
				"Draw it out step by step",
			},
			Explanation:     "Use three pointers: prev, curr, next. At each step, save curr.next, point curr to prev, move prev to curr, move curr to the saved next.",
			SimilarProblems: []string{"Reverse Linked List II", "Palindrome Linked List"},
		},
		{
			ID:              "binary_tree_inorder",
			Title:           "Binary Tree Inorder Traversal",
			Description:     "Given the root of a binary tree, return the inorder traversal of its nodes' values.",
			Topic:           models.TopicTrees,
			Difficulty:      models.DifficultyEasy,
			OptimalSolution: "Recursive traversal, or iterative using an explicit stack",
			TimeComplexity:  "O(n)",
			SpaceComplexity: "O(n)",
			Hints: []string{
				"Inorder traversal visits left, then root, then right",
				"Can you do it recursively?",
				"For the iterative approach, think about using a stack",
			},
			Explanation:     "Recursive: visit the left subtree, add the root value, visit the right subtree. Iterative: use a stack to simulate recursion, pushing left nodes first.",
			SimilarProblems: []string{"Preorder Traversal", "Postorder Traversal", "Level Order Traversal"},
		},
		{
			ID:              "course_schedule",
			Title:           "Course Schedule",
			Description:     "There are a total of numCourses courses labeled from 0 to numCourses-1. Given prerequisites, determine if you can finish all courses.",
			Topic:           models.TopicGraphs,
			Difficulty:      models.DifficultyMedium,
			OptimalSolution: "Topological sort using Kahn's algorithm or DFS cycle detection",
			TimeComplexity:  "O(V + E)",
			SpaceComplexity: "O(V + E)",
			Hints: []string{
				"This is a graph problem with courses as nodes and prerequisites as edges",
				"Think about detecting cycles in a directed graph",
				"Topological sorting might help",
			},
			Explanation:     "Model as a directed graph. If a cycle exists, the courses cannot be finished. Use Kahn's algorithm (BFS) with indegree counting, or DFS with three colors.",
			SimilarProblems: []string{"Course Schedule II", "Alien Dictionary"},
		},
		{
			ID:              "coin_change",
			Title:           "Coin Change",
			Description:     "Given coins of different denominations and a total amount, find the fewest number of coins needed.",
			Topic:           models.TopicDynamicProgramming,
			Difficulty:      models.DifficultyMedium,
			OptimalSolution: "Dynamic programming bottom-up approach",
			TimeComplexity:  "O(amount * n)",
			SpaceComplexity: "O(amount)",
			Hints: []string{
				"This is an unbounded knapsack problem",
				"Think about subproblems: minimum coins for smaller amounts",
				"Initialize dp[0] = 0",
			},
			Explanation:     "dp[i] = minimum coins for amount i. For each coin, dp[i] = min(dp[i], dp[i-coin] + 1). Return dp[amount] unless it stayed at infinity.",
			SimilarProblems: []string{"Coin Change II", "Minimum Cost For Tickets"},
		},
	}
}

func loadDocuments() ([]models.Document, []SampleProblem) {
	var documents []models.Document

	for topic, content := range topicPrimers {
		documents = append(documents, models.Document{
			Content: content,
			Topic:   topic,
			Type:    models.DocumentTypeConcept,
		})
	}

	problems := sampleProblems()
	for _, problem := range problems {
		documents = append(documents, models.Document{
			Content:    renderProblemDocument(problem),
			Topic:      problem.Topic,
			Type:       models.DocumentTypeProblem,
			ProblemID:  problem.ID,
			Difficulty: string(problem.Difficulty),
		})
	}

	return documents, problems
}

func renderProblemDocument(p SampleProblem) string {
	var doc strings.Builder
	doc.WriteString(fmt.Sprintf("Problem: %s\n", p.Title))
	doc.WriteString(fmt.Sprintf("Difficulty: %s\n", p.Difficulty))
	doc.WriteString(fmt.Sprintf("Topic: %s\n\n", p.Topic))
	doc.WriteString(fmt.Sprintf("Description: %s\n\n", p.Description))
	doc.WriteString(fmt.Sprintf("Optimal Solution Approach: %s\n\n", p.Explanation))
	doc.WriteString(fmt.Sprintf("Time Complexity: %s\n", p.TimeComplexity))
	doc.WriteString(fmt.Sprintf("Space Complexity: %s\n\n", p.SpaceComplexity))
	doc.WriteString(fmt.Sprintf("Similar Problems: %s\n", strings.Join(p.SimilarProblems, ", ")))
	return doc.String()
}
