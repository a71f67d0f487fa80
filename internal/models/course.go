package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Course represents a course owned by an instructor
type Course struct {
	ID           int             `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	InstructorID int             `json:"instructor"`
	Price        decimal.Decimal `json:"price"`
}

// IsFree reports whether the course can be joined without payment
func (c *Course) IsFree() bool {
	return !c.Price.IsPositive()
}

// AmountInMinorUnits converts the price into the smallest currency unit, truncating
func (c *Course) AmountInMinorUnits() int64 {
	return c.Price.Mul(hundred).IntPart()
}

// CourseListItem is the reduced shape used by list views
type CourseListItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Instructor  int    `json:"instructor"`
}

// CourseDetailResponse is the full nested shape of a course for one viewer
type CourseDetailResponse struct {
	ID          int              `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Instructor  int              `json:"instructor"`
	Price       string           `json:"price" example:"499.00"`
	Modules     []ModuleResponse `json:"modules"`
	IsEnrolled  bool             `json:"is_enrolled"`
}

// CourseWriteRequest is the body of course create and full update
//
// An omitted price defaults to zero on create and keeps the stored price on update.
type CourseWriteRequest struct {
	Title       string           `json:"title" example:"Go for backend developers"`
	Description string           `json:"description" example:"From zero to production services"`
	Price       *decimal.Decimal `json:"price,omitempty" swaggertype:"string" example:"499.00"`
}

// CoursePatchRequest is the body of a partial course update
type CoursePatchRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" swaggertype:"string"`
}
