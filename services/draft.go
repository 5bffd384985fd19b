package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vnkhanh/e-course-backend/models"
)

// ErrIndexOutOfRange is returned by positional draft mutations whose section
// or chapter index does not exist.
var ErrIndexOutOfRange = errors.New("index out of range")

// LocalFile is a file picked in the editor but not yet uploaded.
type LocalFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsVideo reports whether the file should go through the video upload path.
func (f *LocalFile) IsVideo() bool {
	return f != nil && strings.HasPrefix(f.ContentType, "video/")
}

// Preview holds the in-memory bytes backing a cover photo preview. Release
// frees the bytes; once released the preview is dead and must not be shown.
type Preview struct {
	data     []byte
	released bool
}

func NewPreview(data []byte) *Preview {
	return &Preview{data: data}
}

func (p *Preview) Bytes() []byte {
	if p == nil || p.released {
		return nil
	}
	return p.data
}

func (p *Preview) Release() {
	if p == nil {
		return
	}
	p.released = true
	p.data = nil
}

func (p *Preview) Released() bool {
	return p == nil || p.released
}

// DraftChapter is a chapter under edit, optionally carrying a locally picked
// video file that has not been uploaded yet.
type DraftChapter struct {
	models.Chapter
	LocalVideo *LocalFile
}

// DraftSection is a section under edit.
type DraftSection struct {
	SectionID          string
	SectionTitle       string
	SectionDescription string
	Chapters           []DraftChapter
}

// SectionFields is a partial edit of a section; nil fields keep their value.
type SectionFields struct {
	SectionTitle       *string
	SectionDescription *string
}

// ChapterFields is a partial edit of a chapter; nil fields keep their value.
type ChapterFields struct {
	Type        *string
	Title       *string
	Content     *string
	Video       *string
	FreePreview *bool
	LocalVideo  *LocalFile
	ClearVideo  bool
}

// CourseDraft is the working copy of a course the editor mutates. Nothing in
// it is persisted until the draft is saved through an EditorClient; discarding
// it loses every change.
type CourseDraft struct {
	CourseID         string
	TeacherName      string
	Title            string
	Description      string
	ShortDescription string
	Category         string
	SubCategory      string
	Price            string
	Level            string
	Status           string
	Image            string
	WhatYoullLearn   []string
	Requirements     []string
	Sections         []DraftSection

	pendingCover *LocalFile
	coverPreview *Preview
}

// NewCourseDraft seeds a draft from a stored course. The integer-cents price
// becomes the decimal string the editor works with.
func NewCourseDraft(course *models.Course) (*CourseDraft, error) {
	sections, err := course.DecodedSections()
	if err != nil {
		return nil, err
	}
	learn, err := course.DecodedWhatYoullLearn()
	if err != nil {
		return nil, err
	}
	requirements, err := course.DecodedRequirements()
	if err != nil {
		return nil, err
	}

	draft := &CourseDraft{
		CourseID:         course.ID.String(),
		TeacherName:      course.TeacherName,
		Title:            course.Title,
		Description:      course.Description,
		ShortDescription: course.ShortDescription,
		Category:         course.Category,
		SubCategory:      course.SubCategory,
		Price:            formatPrice(course.Price),
		Level:            course.Level,
		Status:           course.Status,
		Image:            course.Image,
		WhatYoullLearn:   learn,
		Requirements:     requirements,
	}
	for _, section := range sections {
		ds := DraftSection{
			SectionID:          section.SectionID,
			SectionTitle:       section.SectionTitle,
			SectionDescription: section.SectionDescription,
		}
		for _, chapter := range section.Chapters {
			ds.Chapters = append(ds.Chapters, DraftChapter{Chapter: chapter})
		}
		draft.Sections = append(draft.Sections, ds)
	}
	return draft, nil
}

func formatPrice(cents int) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}

// AddSection appends an empty titled section.
func (d *CourseDraft) AddSection(title string) {
	d.Sections = append(d.Sections, DraftSection{SectionTitle: title})
}

// EditSection patches the section at index with the present fields.
func (d *CourseDraft) EditSection(index int, fields SectionFields) error {
	if index < 0 || index >= len(d.Sections) {
		return ErrIndexOutOfRange
	}
	section := &d.Sections[index]
	if fields.SectionTitle != nil {
		section.SectionTitle = *fields.SectionTitle
	}
	if fields.SectionDescription != nil {
		section.SectionDescription = *fields.SectionDescription
	}
	return nil
}

// DeleteSection removes the section at index and everything in it.
func (d *CourseDraft) DeleteSection(index int) error {
	if index < 0 || index >= len(d.Sections) {
		return ErrIndexOutOfRange
	}
	d.Sections = append(d.Sections[:index], d.Sections[index+1:]...)
	return nil
}

// AddChapter appends a chapter to the section at sectionIndex.
func (d *CourseDraft) AddChapter(sectionIndex int, chapter DraftChapter) error {
	if sectionIndex < 0 || sectionIndex >= len(d.Sections) {
		return ErrIndexOutOfRange
	}
	d.Sections[sectionIndex].Chapters = append(d.Sections[sectionIndex].Chapters, chapter)
	return nil
}

// EditChapter patches the addressed chapter with the present fields. A newly
// attached LocalVideo replaces any previous pending one for the chapter.
func (d *CourseDraft) EditChapter(sectionIndex, chapterIndex int, fields ChapterFields) error {
	chapter, err := d.chapterAt(sectionIndex, chapterIndex)
	if err != nil {
		return err
	}
	if fields.Type != nil {
		chapter.Type = *fields.Type
	}
	if fields.Title != nil {
		chapter.Title = *fields.Title
	}
	if fields.Content != nil {
		chapter.Content = *fields.Content
	}
	if fields.Video != nil {
		chapter.Video = *fields.Video
	}
	if fields.FreePreview != nil {
		chapter.FreePreview = fields.FreePreview
	}
	if fields.LocalVideo != nil {
		chapter.LocalVideo = fields.LocalVideo
	}
	if fields.ClearVideo {
		chapter.Video = ""
		chapter.LocalVideo = nil
	}
	return nil
}

// DeleteChapter removes the addressed chapter.
func (d *CourseDraft) DeleteChapter(sectionIndex, chapterIndex int) error {
	if sectionIndex < 0 || sectionIndex >= len(d.Sections) {
		return ErrIndexOutOfRange
	}
	chapters := d.Sections[sectionIndex].Chapters
	if chapterIndex < 0 || chapterIndex >= len(chapters) {
		return ErrIndexOutOfRange
	}
	d.Sections[sectionIndex].Chapters = append(chapters[:chapterIndex], chapters[chapterIndex+1:]...)
	return nil
}

func (d *CourseDraft) chapterAt(sectionIndex, chapterIndex int) (*DraftChapter, error) {
	if sectionIndex < 0 || sectionIndex >= len(d.Sections) {
		return nil, ErrIndexOutOfRange
	}
	chapters := d.Sections[sectionIndex].Chapters
	if chapterIndex < 0 || chapterIndex >= len(chapters) {
		return nil, ErrIndexOutOfRange
	}
	return &chapters[chapterIndex], nil
}

// SetCategory switches the draft category and clears the sub-category when it
// does not belong to the new one.
func (d *CourseDraft) SetCategory(category string) {
	d.Category = category
	if d.SubCategory != "" && !models.SubCategoryBelongsTo(category, d.SubCategory) {
		d.SubCategory = ""
	}
}

// SetCoverPhoto stages file as the pending cover and returns a preview over
// its bytes. The preview backing any previously staged cover is released
// first, so only one preview is ever live.
func (d *CourseDraft) SetCoverPhoto(file *LocalFile) *Preview {
	d.coverPreview.Release()
	d.pendingCover = file
	d.coverPreview = NewPreview(file.Data)
	return d.coverPreview
}

// ClearCoverPhoto drops the pending cover and releases its preview.
func (d *CourseDraft) ClearCoverPhoto() {
	d.coverPreview.Release()
	d.pendingCover = nil
	d.coverPreview = nil
}

// PendingCover returns the staged cover file, nil when none is staged.
func (d *CourseDraft) PendingCover() *LocalFile {
	return d.pendingCover
}

// Discard releases every preview the draft holds. The draft must not be used
// afterwards.
func (d *CourseDraft) Discard() {
	d.coverPreview.Release()
	d.pendingCover = nil
	d.coverPreview = nil
}

// sectionsForSave converts the draft structure back to the stored shape.
func (d *CourseDraft) sectionsForSave() []models.Section {
	var sections []models.Section
	for _, ds := range d.Sections {
		section := models.Section{
			SectionID:          ds.SectionID,
			SectionTitle:       ds.SectionTitle,
			SectionDescription: ds.SectionDescription,
		}
		for _, dc := range ds.Chapters {
			section.Chapters = append(section.Chapters, dc.Chapter)
		}
		sections = append(sections, section)
	}
	return sections
}
