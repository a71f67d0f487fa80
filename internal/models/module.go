package models

// Module groups lessons inside a course
type Module struct {
	ID       int    `json:"id"`
	CourseID int    `json:"course"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

// ModuleResponse is the nested read shape of a module
type ModuleResponse struct {
	ID      int              `json:"id"`
	Title   string           `json:"title"`
	Order   int              `json:"order"`
	Lessons []LessonResponse `json:"lessons"`
}

// ModuleWriteRequest is the body of module create and full update
type ModuleWriteRequest struct {
	Course int    `json:"course" example:"1"`
	Title  string `json:"title" example:"Getting started"`
	Order  int    `json:"order" example:"1"`
}

// ModulePatchRequest is the body of a partial module update
type ModulePatchRequest struct {
	Course *int    `json:"course,omitempty"`
	Title  *string `json:"title,omitempty"`
	Order  *int    `json:"order,omitempty"`
}
