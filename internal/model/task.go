package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component
type Date struct {
	time.Time
}

// NewDate keeps the calendar day of t as seen in t's location
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Task is a to-do item owned by a single user
type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"usuario_id"`
	Title       string    `json:"titulo"`
	Description *string   `json:"descripcion"`  // nil when not set
	DueDate     *Date     `json:"fecha_limite"` // nil when not set
	CreatedAt   time.Time `json:"creado_en"`
	UpdatedAt   time.Time `json:"actualizado_en"`
}

// CreateTaskRequest is used for creating a new task
type CreateTaskRequest struct {
	Title       string  `json:"titulo"`
	Description *string `json:"descripcion"`
	DueDate     *string `json:"fecha_limite"`
}

// UpdateTaskRequest carries a partial update. Nil fields are left untouched,
// an empty description or due date clears the stored value.
type UpdateTaskRequest struct {
	Title       *string `json:"titulo,omitempty"`
	Description *string `json:"descripcion,omitempty"`
	DueDate     *string `json:"fecha_limite,omitempty"`
}

// Task listing sort fields and directions
const (
	TaskSortTitle     = "titulo"
	TaskSortDueDate   = "fecha_limite"
	TaskSortCreatedAt = "creado_en"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TaskFilter contains filter parameters for a user's task listing
type TaskFilter struct {
	Search   string // case-insensitive substring over title and description
	DateFrom *Date  // due date, inclusive
	DateTo   *Date  // due date, inclusive
	SortBy   string
	Order    string
}
