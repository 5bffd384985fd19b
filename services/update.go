package services

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"github.com/vnkhanh/e-course-backend/models"
)

// FlexStrings decodes either a JSON array of strings or a string-encoded
// array ("[\"a\",\"b\"]"), the two shapes clients send list fields in.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		return json.Unmarshal([]byte(encoded), (*[]string)(f))
	}
	return json.Unmarshal(data, (*[]string)(f))
}

// FlexSections decodes a sections payload that is either a JSON array or a
// string-encoded array (the multipart form shape).
type FlexSections []models.Section

func (f *FlexSections) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		return json.Unmarshal([]byte(encoded), (*[]models.Section)(f))
	}
	return json.Unmarshal(data, (*[]models.Section)(f))
}

// CourseUpdate is one partial course update: nil fields are left untouched by
// the merge. Price travels as a decimal major-unit string ("49.99") exactly as
// the web client submits it.
type CourseUpdate struct {
	TeacherName      *string       `json:"teacherName"`
	Title            *string       `json:"title"`
	Description      *string       `json:"description"`
	ShortDescription *string       `json:"shortDescription"`
	Category         *string       `json:"category"`
	SubCategory      *string       `json:"subCategory"`
	Price            *string       `json:"price"`
	Level            *string       `json:"level"`
	Status           *string       `json:"status"`
	Image            *string       `json:"image"`
	WhatYoullLearn   *FlexStrings  `json:"whatYoullLearn"`
	Requirements     *FlexStrings  `json:"requirements"`
	Sections         *FlexSections `json:"sections"`
}

// CourseUpdateFromValues builds a CourseUpdate from form-encoded values, the
// shape the course editor submits (multipart with JSON-encoded array fields).
func CourseUpdateFromValues(values url.Values) (CourseUpdate, error) {
	var upd CourseUpdate

	str := func(key string) *string {
		if vs, ok := values[key]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}

	upd.TeacherName = str("teacherName")
	upd.Title = str("title")
	upd.Description = str("description")
	upd.ShortDescription = str("shortDescription")
	upd.Category = str("category")
	upd.SubCategory = str("subCategory")
	upd.Price = str("price")
	upd.Level = str("level")
	upd.Status = str("status")
	upd.Image = str("image")

	if raw := str("whatYoullLearn"); raw != nil {
		var items FlexStrings
		if err := json.Unmarshal([]byte(*raw), (*[]string)(&items)); err != nil {
			return upd, err
		}
		upd.WhatYoullLearn = &items
	}
	if raw := str("requirements"); raw != nil {
		var items FlexStrings
		if err := json.Unmarshal([]byte(*raw), (*[]string)(&items)); err != nil {
			return upd, err
		}
		upd.Requirements = &items
	}
	if raw := str("sections"); raw != nil {
		var sections FlexSections
		if err := json.Unmarshal([]byte(*raw), (*[]models.Section)(&sections)); err != nil {
			return upd, err
		}
		upd.Sections = &sections
	}

	return upd, nil
}

// ParsePrice converts a decimal major-unit amount to integer cents, rounding
// to the nearest cent. Non-numeric and negative input is rejected.
func ParsePrice(value string) (int, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0, strconv.ErrSyntax
	}
	return int(math.Round(amount * 100)), nil
}

// ApplyCourseUpdate validates upd against the stored course and merges it in.
// The sequence is fixed: category integrity, price parsing, publish gate,
// structural normalization, then the merge. Any failure returns before a
// single field of course is touched, so a rejected update leaves the stored
// document exactly as it was. Ownership must already have been checked by the
// caller.
func ApplyCourseUpdate(course *models.Course, upd CourseUpdate) *UpdateError {
	// Category integrity: evaluated against the incoming value when present,
	// the stored one otherwise, so changing only the category still catches a
	// now-incompatible sub-category.
	if upd.Category != nil || upd.SubCategory != nil {
		category := course.Category
		if upd.Category != nil {
			category = *upd.Category
		}
		subCategory := course.SubCategory
		if upd.SubCategory != nil {
			subCategory = *upd.SubCategory
		}
		if !models.IsValidCategory(category) {
			return ErrInvalidCategory
		}
		if !models.IsValidSubCategory(subCategory) {
			return ErrInvalidSubCategory
		}
		if !models.SubCategoryBelongsTo(category, subCategory) {
			return ErrCategoryMismatch
		}
	}

	var priceCents *int
	if upd.Price != nil {
		cents, err := ParsePrice(*upd.Price)
		if err != nil {
			return ErrInvalidPriceFormat
		}
		priceCents = &cents
	}

	if upd.Status != nil {
		if *upd.Status != models.StatusDraft && *upd.Status != models.StatusPublished {
			return ErrInvalidStatus
		}
		if *upd.Status == models.StatusPublished {
			// The effective image is the one arriving in this same update when
			// present, else the stored one.
			image := course.Image
			if upd.Image != nil {
				image = *upd.Image
			}
			if gateErr := CheckPublishGate(image); gateErr != nil {
				return gateErr
			}
		}
	}

	var sections []models.Section
	if upd.Sections != nil {
		sections = NormalizeSections([]models.Section(*upd.Sections))
	}

	// All checks passed; merge the present fields.
	if upd.TeacherName != nil {
		course.TeacherName = *upd.TeacherName
	}
	if upd.Title != nil {
		course.Title = *upd.Title
		course.Slug = slug.Make(*upd.Title)
	}
	if upd.Description != nil {
		course.Description = *upd.Description
	}
	if upd.ShortDescription != nil {
		course.ShortDescription = *upd.ShortDescription
	}
	if upd.Category != nil {
		course.Category = *upd.Category
	}
	if upd.SubCategory != nil {
		course.SubCategory = *upd.SubCategory
	}
	if priceCents != nil {
		course.Price = *priceCents
	}
	if upd.Level != nil {
		course.Level = *upd.Level
	}
	if upd.Status != nil {
		course.Status = *upd.Status
	}
	if upd.Image != nil {
		course.Image = *upd.Image
	}
	if upd.Sections != nil {
		if err := course.SetSections(sections); err != nil {
			return ErrMalformedPayload
		}
	}
	if upd.WhatYoullLearn != nil {
		if err := course.SetWhatYoullLearn([]string(*upd.WhatYoullLearn)); err != nil {
			return ErrMalformedPayload
		}
	}
	if upd.Requirements != nil {
		if err := course.SetRequirements([]string(*upd.Requirements)); err != nil {
			return ErrMalformedPayload
		}
	}

	return nil
}
