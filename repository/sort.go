package repository

import (
	"sort"

	"mascota-mockups/models"
)

func sortNewestFirst(records []models.MockupRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
