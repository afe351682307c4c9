// Package partition implements the CoursePartitioner: classifying each
// course into a scheduling phase and sorting within a phase by
// priority score. See spec.md §4.2.
package partition

import (
	"sort"

	"github.com/deptsched/coursetime/internal/models"
)

// Partition classifies every course and groups+sorts them by phase,
// returning phases in the fixed solve order (spec.md §4.2).
func Partition(courses []models.Course) []models.Phase {
	byPhase := GroupByPhase(courses)
	var phases []models.Phase
	for _, phase := range models.AllPhasesInOrder() {
		if len(byPhase[phase]) > 0 {
			phases = append(phases, phase)
		}
	}
	return phases
}

// GroupByPhase classifies every course and sorts each phase's courses
// descending by priority score (lab-bearing, high-block, high-unit
// first).
func GroupByPhase(courses []models.Course) map[models.Phase][]models.Course {
	grouped := make(map[models.Phase][]models.Course)
	for _, c := range courses {
		phase := c.Classify()
		grouped[phase] = append(grouped[phase], c)
	}
	for phase, list := range grouped {
		sorted := make([]models.Course, len(list))
		copy(sorted, list)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].PriorityScore() > sorted[j].PriorityScore()
		})
		grouped[phase] = sorted
	}
	return grouped
}
