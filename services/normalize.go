package services

import (
	"github.com/google/uuid"

	"github.com/vnkhanh/e-course-backend/models"
)

// NormalizeSections assigns a fresh identifier to every section and chapter
// that lacks one. Existing identifiers are never touched, so running it again
// over its own output changes nothing: repeated partial saves keep stable IDs.
func NormalizeSections(sections []models.Section) []models.Section {
	out := make([]models.Section, len(sections))
	for i, section := range sections {
		if section.SectionID == "" {
			section.SectionID = uuid.NewString()
		}
		chapters := make([]models.Chapter, len(section.Chapters))
		for j, chapter := range section.Chapters {
			if chapter.ChapterID == "" {
				chapter.ChapterID = uuid.NewString()
			}
			chapters[j] = chapter
		}
		section.Chapters = chapters
		out[i] = section
	}
	return out
}
