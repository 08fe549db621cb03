package entities

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common errors
var (
	ErrDueDateBeforePeriodEnd = errors.New("Due date should be after the end of the period")
	ErrInvalidPeriod          = errors.New("invalid period")
	ErrInvalidPeriodType      = errors.New("invalid period type")
	ErrInvalidDueDate         = errors.New("invalid due date")
	ErrInvalidID              = errors.New("invalid id")
	ErrInvalidPaging          = errors.New("invalid paging")
	ErrTaskListNotFound       = errors.New("task list not found")
)

// PeriodType is the granularity of a task's recurrence window.
type PeriodType string

const (
	PeriodTypeMonthly   PeriodType = "monthly"
	PeriodTypeQuarterly PeriodType = "quarterly"
	PeriodTypeYearly    PeriodType = "yearly"
)

// IsValid reports whether p is one of the known period types.
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodTypeMonthly, PeriodTypeQuarterly, PeriodTypeYearly:
		return true
	}
	return false
}

// TaskList is a named grouping that tasks belong to.
type TaskList struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name,omitempty"`
	Description string             `json:"description" bson:"description,omitempty"`
	Active      *bool              `json:"active,omitempty" bson:"active,omitempty"`
}

// Task is a recurring to-do item. TaskListID is a weak reference: nothing
// guarantees the list exists.
type Task struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TaskName    string             `json:"taskName" bson:"taskName"`
	Description string             `json:"description" bson:"description"`
	DueDate     time.Time          `json:"dueDate" bson:"dueDate"`
	Period      string             `json:"period" bson:"period"`
	PeriodType  PeriodType         `json:"periodType" bson:"periodType"`
	TaskListID  primitive.ObjectID `json:"taskListId" bson:"taskListId"`
}

// TaskListing is a task shaped for the search endpoint, with the list name
// resolved and the due date rendered as DD-MM-YYYY.
type TaskListing struct {
	TaskName     string     `json:"taskName"`
	Description  string     `json:"description"`
	PeriodType   PeriodType `json:"periodType"`
	Period       string     `json:"period"`
	DueDate      string     `json:"dueDate"`
	TaskListName string     `json:"taskListName"`
}

// TaskPage is one page of search results plus the total match count.
type TaskPage struct {
	Count   int64         `json:"count"`
	Results []TaskListing `json:"results"`
}
