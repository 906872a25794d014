package models

import (
	"encoding/json"
	"time"
)

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskCreate holds the caller-supplied fields of a new task.
type TaskCreate struct {
	Title       string
	Description *string
	Completed   bool
}

// TaskPatch lists the fields to overwrite on update. Nil pointers and an
// unset Description leave the stored value untouched.
type TaskPatch struct {
	Title       *string
	Description OptionalString
	Completed   *bool
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && !p.Description.Set && p.Completed == nil
}

// Apply merges the patch into t. UpdatedAt is left to the caller.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// OptionalString tells an absent JSON member apart from an explicit null.
//
//	{}                    -> Set=false
//	{"description":null}  -> Set=true, Value=nil
//	{"description":"x"}   -> Set=true, Value="x"
type OptionalString struct {
	Set   bool
	Value *string
}

// Some returns a set OptionalString holding s.
func Some(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// Null returns a set OptionalString holding null.
func Null() OptionalString {
	return OptionalString{Set: true}
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Page is an offset/limit window over an ordered result set.
type Page struct {
	Skip  int
	Limit int
}
