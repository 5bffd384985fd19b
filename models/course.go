package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlaceholderImage is the sentinel for "no cover photo set". A course carrying
// it cannot be published.
const PlaceholderImage = "/placeholder.png"

const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
)

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

const (
	ChapterText  = "Text"
	ChapterQuiz  = "Quiz"
	ChapterVideo = "Video"
)

// ChapterComment is a learner comment attached to a chapter.
type ChapterComment struct {
	CommentID string `json:"commentId"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Chapter is the smallest content unit. Video holds a durable content URL once
// the media has been uploaded; it is empty while a chapter video is still a
// local file in an editing session.
type Chapter struct {
	ChapterID   string           `json:"chapterId"`
	Type        string           `json:"type"` // Text | Quiz | Video
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Video       string           `json:"video,omitempty"`
	FreePreview *bool            `json:"freePreview,omitempty"`
	Comments    []ChapterComment `json:"comments,omitempty"`
}

// Section is an ordered grouping of chapters within a course.
type Section struct {
	SectionID          string    `json:"sectionId"`
	SectionTitle       string    `json:"sectionTitle"`
	SectionDescription string    `json:"sectionDescription,omitempty"`
	Chapters           []Chapter `json:"chapters"`
}

type Enrollment struct {
	UserID string `json:"userId"`
}

// Course is the full nested course document. Sections, enrollments and the
// marketing lists live in JSON columns so the whole record is stored and
// updated as one document keyed by course id.
type Course struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"courseId"`
	TeacherID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacherId"`
	TeacherName      string         `gorm:"size:150;not null" json:"teacherName"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Slug             string         `gorm:"size:255;index" json:"slug"`
	Description      string         `gorm:"type:text" json:"description"`
	ShortDescription string         `gorm:"size:250" json:"shortDescription"`
	Category         string         `gorm:"size:100;not null" json:"category"`
	SubCategory      string         `gorm:"size:100;not null" json:"subCategory"`
	Image            string         `gorm:"type:text" json:"image"`
	Price            int            `gorm:"default:0" json:"price"` // minor currency units (cents)
	Level            string         `gorm:"type:varchar(20);default:'Beginner'" json:"level"`
	Status           string         `gorm:"type:varchar(20);default:'Draft'" json:"status"`
	Sections         datatypes.JSON `json:"sections"`
	Enrollments      datatypes.JSON `json:"enrollments"`
	WhatYoullLearn   datatypes.JSON `json:"whatYoullLearn"`
	Requirements     datatypes.JSON `json:"requirements"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Course) DecodedSections() ([]Section, error) {
	var sections []Section
	if err := decodeColumn(c.Sections, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *Course) SetSections(sections []Section) error {
	return encodeColumn(&c.Sections, sections)
}

func (c *Course) DecodedEnrollments() ([]Enrollment, error) {
	var enrollments []Enrollment
	if err := decodeColumn(c.Enrollments, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (c *Course) SetEnrollments(enrollments []Enrollment) error {
	return encodeColumn(&c.Enrollments, enrollments)
}

func (c *Course) DecodedWhatYoullLearn() ([]string, error) {
	var items []string
	if err := decodeColumn(c.WhatYoullLearn, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Course) SetWhatYoullLearn(items []string) error {
	return encodeColumn(&c.WhatYoullLearn, items)
}

func (c *Course) DecodedRequirements() ([]string, error) {
	var items []string
	if err := decodeColumn(c.Requirements, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Course) SetRequirements(items []string) error {
	return encodeColumn(&c.Requirements, items)
}

func decodeColumn(col datatypes.JSON, dst any) error {
	if len(col) == 0 {
		return nil
	}
	return json.Unmarshal(col, dst)
}

func encodeColumn(col *datatypes.JSON, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*col = datatypes.JSON(b)
	return nil
}
