package curriculum

import (
	"fmt"
	"time"
)

type durationPreset struct {
	Key                PresetKey
	MaxMinutes         int
	TopicsPerLesson    int
	ObjectivesPerTopic int
	TasksPerObjective  int
}

// presetTable maps a scheduled lesson duration to default content volume.
// fullDay exists in the table but PresetKeyForDuration never selects it:
// durations above 240 minutes collapse to halfFull. Kept as-is.
var presetTable = []durationPreset{
	{Key: PresetMini, MaxMinutes: 30, TopicsPerLesson: 1, ObjectivesPerTopic: 1, TasksPerObjective: 2},
	{Key: PresetSingle, MaxMinutes: 60, TopicsPerLesson: 2, ObjectivesPerTopic: 1, TasksPerObjective: 2},
	{Key: PresetDouble, MaxMinutes: 120, TopicsPerLesson: 2, ObjectivesPerTopic: 2, TasksPerObjective: 2},
	{Key: PresetTriple, MaxMinutes: 180, TopicsPerLesson: 3, ObjectivesPerTopic: 2, TasksPerObjective: 2},
	{Key: PresetHalfFull, MaxMinutes: 240, TopicsPerLesson: 3, ObjectivesPerTopic: 3, TasksPerObjective: 2},
	{Key: PresetFullDay, MaxMinutes: 480, TopicsPerLesson: 4, ObjectivesPerTopic: 3, TasksPerObjective: 2},
}

type BreakWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const clockLayout = "15:04"

// CalculateLessonDuration returns the wall-clock minutes between start and
// end minus the summed break windows, floored at 0. Breaks are assumed
// non-overlapping; no overlap validation happens here.
func CalculateLessonDuration(start, end string, breaks []BreakWindow) int {
	total := clockDiffMinutes(start, end)
	for _, b := range breaks {
		total -= clockDiffMinutes(b.Start, b.End)
	}
	if total < 0 {
		return 0
	}
	return total
}

func clockDiffMinutes(start, end string) int {
	s, err := time.Parse(clockLayout, start)
	if err != nil {
		return 0
	}
	e, err := time.Parse(clockLayout, end)
	if err != nil {
		return 0
	}
	return int(e.Sub(s).Minutes())
}

// PresetKeyForDuration is monotonic non-decreasing in tier as minutes grow.
func PresetKeyForDuration(minutes int) PresetKey {
	switch {
	case minutes <= 30:
		return PresetMini
	case minutes <= 60:
		return PresetSingle
	case minutes <= 120:
		return PresetDouble
	case minutes <= 180:
		return PresetTriple
	default:
		return PresetHalfFull
	}
}

func presetByKey(key PresetKey) durationPreset {
	for _, p := range presetTable {
		if p.Key == key {
			return p
		}
	}
	return presetTable[0]
}

// CompetencyStrategy chooses how many competencies a lesson gets for a given
// topic count.
type CompetencyStrategy func(topicsPerLesson int) int

// DefaultCompetencyStrategy groups topics pairwise, with at least one
// competency and never more competencies than topics.
func DefaultCompetencyStrategy(topicsPerLesson int) int {
	if topicsPerLesson <= 0 {
		return 1
	}
	c := (topicsPerLesson + 1) / 2
	if c < 1 {
		c = 1
	}
	if c > topicsPerLesson {
		c = topicsPerLesson
	}
	return c
}

// DetermineContentLoad resolves the duration preset and recommendation state
// for a scheduled duration. IsRecommended means the duration actually fills
// its tier: it exceeds the previous tier's maximum and fits this one.
// halfFull is recommended for anything above 180 minutes.
func DetermineContentLoad(duration int, strategy CompetencyStrategy) ContentLoadConfig {
	if strategy == nil {
		strategy = DefaultCompetencyStrategy
	}
	key := PresetKeyForDuration(duration)
	preset := presetByKey(key)

	prevMax := 0
	for _, p := range presetTable {
		if p.Key == key {
			break
		}
		prevMax = p.MaxMinutes
	}

	var recommended bool
	if key == PresetHalfFull {
		recommended = duration > 180
	} else {
		recommended = duration > prevMax && duration <= preset.MaxMinutes
	}

	cfg := ContentLoadConfig{
		Type:                  key,
		Duration:              duration,
		TopicsPerLesson:       preset.TopicsPerLesson,
		CompetenciesPerLesson: strategy(preset.TopicsPerLesson),
		ObjectivesPerTopic:    preset.ObjectivesPerTopic,
		TasksPerObjective:     preset.TasksPerObjective,
		IsRecommended:         recommended,
	}
	if recommended {
		cfg.RecommendationText = fmt.Sprintf(
			"Recommended for %d-minute lessons: %d topic(s), %d objective(s) per topic, %d task(s) per objective.",
			duration, cfg.TopicsPerLesson, cfg.ObjectivesPerTopic, cfg.TasksPerObjective,
		)
	}
	return cfg
}
