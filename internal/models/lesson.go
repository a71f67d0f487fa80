package models

import "time"

// Lesson is a single unit of content inside a module
type Lesson struct {
	ID       int    `json:"id"`
	ModuleID int    `json:"module"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	VideoURL string `json:"video_url"`
	Content  string `json:"content"`
}

// LessonResponse is the read shape of a lesson for one viewer
type LessonResponse struct {
	ID           int    `json:"id"`
	ModuleID     int    `json:"-"`
	Title        string `json:"title"`
	Order        int    `json:"order"`
	VideoURL     string `json:"video_url"`
	Content      string `json:"content"`
	IsCompleted  bool   `json:"is_completed"`
	InstructorID int    `json:"instructor_id"`
}

// LessonWriteRequest is the body of lesson create and full update
type LessonWriteRequest struct {
	Module   int    `json:"module" example:"1"`
	Title    string `json:"title" example:"Hello, world"`
	Order    int    `json:"order" example:"1"`
	VideoURL string `json:"video_url" example:"https://videos.example.com/hello.mp4"`
	Content  string `json:"content" example:"Lesson text"`
}

// LessonPatchRequest is the body of a partial lesson update
type LessonPatchRequest struct {
	Module   *int    `json:"module,omitempty"`
	Title    *string `json:"title,omitempty"`
	Order    *int    `json:"order,omitempty"`
	VideoURL *string `json:"video_url,omitempty"`
	Content  *string `json:"content,omitempty"`
}

// LessonOwnership resolves a lesson to the course and instructor it belongs to
type LessonOwnership struct {
	LessonID     int
	ModuleID     int
	CourseID     int
	InstructorID int
}

// LessonCompletion marks that a user finished a lesson
type LessonCompletion struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user"`
	LessonID    int       `json:"lesson"`
	CompletedAt time.Time `json:"completed_at"`
}
