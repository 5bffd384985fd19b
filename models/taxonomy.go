package models

// CourseCategories is the fixed category taxonomy. A course's sub-category
// must always be a member of the set associated with its category.
var CourseCategories = map[string][]string{
	"Development": {
		"Data Science",
		"Web Development",
		"Mobile Development",
		"Programming Languages",
	},
	"Business": {
		"Entrepreneurship",
		"Business Strategy",
		"Communication",
		"Business Law",
		"Business Analytics and Intelligence",
	},
	"Design": {
		"Web Design",
		"Graphic Design and Illustration",
		"Design Tools",
		"Fashion Design",
	},
	"Marketing": {
		"Digital Marketing",
		"Marketing Fundamentals",
		"Branding",
		"Product Marketing",
	},
}

func IsValidCategory(category string) bool {
	_, ok := CourseCategories[category]
	return ok
}

func IsValidSubCategory(subCategory string) bool {
	for _, subs := range CourseCategories {
		for _, s := range subs {
			if s == subCategory {
				return true
			}
		}
	}
	return false
}

func SubCategoryBelongsTo(category, subCategory string) bool {
	for _, s := range CourseCategories[category] {
		if s == subCategory {
			return true
		}
	}
	return false
}

// SubCategoriesFor returns the sub-categories of a category, nil when the
// category is unknown.
func SubCategoriesFor(category string) []string {
	return CourseCategories[category]
}
