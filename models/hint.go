package models

type HintResponse struct {
	Hint               string `json:"hint"`
	HintLevel          int    `json:"hint_level"`
	MaxLevel           int    `json:"max_level"`
	NextLevelAvailable bool   `json:"next_level_available"`
}

type StuckPointAnalysis struct {
	Analysis   string `json:"analysis"`
	Suggestion string `json:"suggestion"`
	StuckPoint string `json:"likely_stuck_point"`
}
