package models

type StudentProgress struct {
	StudentID     string            `json:"student_id"`
	TotalSessions int               `json:"total_sessions"`
	TopicsMastery map[Topic]float64 `json:"topics_mastery"`
}

type ProgressReport struct {
	StudentID       string   `json:"student_id"`
	TotalSessions   int      `json:"total_sessions"`
	AverageMastery  float64  `json:"average_mastery"`
	StrongAreas     []Topic  `json:"strong_areas"`
	WeakAreas       []Topic  `json:"weak_areas"`
	Recommendations []string `json:"recommendations"`
}
