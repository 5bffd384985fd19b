package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/e-course-backend/models"
)

func TestNormalizeSectionsAssignsMissingIDs(t *testing.T) {
	sections := []models.Section{
		{
			SectionTitle: "Intro",
			Chapters: []models.Chapter{
				{Title: "Welcome"},
				{ChapterID: "existing-chapter", Title: "Setup"},
			},
		},
		{
			SectionID:    "existing-section",
			SectionTitle: "Basics",
			Chapters:     []models.Chapter{{Title: "Variables"}},
		},
	}

	out := NormalizeSections(sections)

	require.Len(t, out, 2)
	assert.NotEmpty(t, out[0].SectionID)
	assert.NotEmpty(t, out[0].Chapters[0].ChapterID)
	assert.Equal(t, "existing-chapter", out[0].Chapters[1].ChapterID)
	assert.Equal(t, "existing-section", out[1].SectionID)
	assert.NotEmpty(t, out[1].Chapters[0].ChapterID)

	// Content untouched
	assert.Equal(t, "Intro", out[0].SectionTitle)
	assert.Equal(t, "Welcome", out[0].Chapters[0].Title)
}

func TestNormalizeSectionsAssignsUniqueIDs(t *testing.T) {
	sections := []models.Section{
		{Chapters: []models.Chapter{{}, {}, {}}},
		{Chapters: []models.Chapter{{}, {}}},
	}

	out := NormalizeSections(sections)

	seen := map[string]bool{}
	for _, s := range out {
		assert.False(t, seen[s.SectionID], "duplicate section id %s", s.SectionID)
		seen[s.SectionID] = true
		for _, ch := range s.Chapters {
			assert.False(t, seen[ch.ChapterID], "duplicate chapter id %s", ch.ChapterID)
			seen[ch.ChapterID] = true
		}
	}
}

func TestNormalizeSectionsIsIdempotent(t *testing.T) {
	sections := []models.Section{
		{SectionTitle: "One", Chapters: []models.Chapter{{Title: "A"}}},
	}

	first := NormalizeSections(sections)
	second := NormalizeSections(first)

	assert.Equal(t, first, second)
}
