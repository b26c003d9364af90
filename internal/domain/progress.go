package domain

// DayVolume is the total training volume logged on one calendar day.
type DayVolume struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
}

// ExerciseSession aggregates all routines of one exercise logged on the same day.
type ExerciseSession struct {
	Date      string  `json:"date"`
	MaxWeight float64 `json:"maxWeight"`
	Volume    float64 `json:"volume"`
}

// ExerciseProgress is the max-weight trend of a single exercise name.
type ExerciseProgress struct {
	Exercise       string            `json:"exercise"`
	Sessions       []ExerciseSession `json:"sessions"`
	StartingWeight float64           `json:"startingWeight"`
	CurrentWeight  float64           `json:"currentWeight"`
	Improvement    float64           `json:"improvement"`
	BestWeight     float64           `json:"bestWeight"`
}
