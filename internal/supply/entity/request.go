package entity

import (
	"fmt"
	"strings"
	"time"

	contacts "github.com/dest81/aid-coordinator/internal/contacts/entity"
)

// Request a recipient's submission of needed items
type Request struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	ContactID     string    `json:"contact_id" gorm:"size:36;not null;index"`
	Goal          string    `json:"goal" gorm:"size:200;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	InternalNotes string    `json:"internal_notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Contact *contacts.Contact `json:"contact,omitempty" gorm:"foreignKey:ContactID"`
	Items   []RequestItem     `json:"items,omitempty" gorm:"foreignKey:RequestID"`
}

func (Request) TableName() string {
	return "requests"
}

func (r *Request) String() string {
	return r.Goal
}

// ChangeLogEntry renders the request and its items as the audit snapshot text.
// Alternative items are folded into the line of the item they substitute.
func (r *Request) ChangeLogEntry() string {
	var b strings.Builder
	b.WriteString(r.Goal)
	b.WriteString("\n")
	for _, line := range RenderItemLines(r.Items) {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// RequestItem a single line of a request. AlternativeFor chains items within
// the same request: A is an acceptable substitute for the item it points at.
type RequestItem struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	RequestID      string    `json:"request_id" gorm:"size:36;not null;index"`
	Type           string    `json:"type" gorm:"size:10;not null;default:HARDWARE"`
	Brand          string    `json:"brand" gorm:"size:100"`
	Model          string    `json:"model" gorm:"size:100"`
	Amount         int       `json:"amount" gorm:"not null;default:1"`
	UpTo           bool      `json:"up_to" gorm:"not null;default:false"`
	Notes          string    `json:"notes" gorm:"type:text"`
	AlternativeFor *string   `json:"alternative_for" gorm:"column:alternative_for;size:36;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Request *Request `json:"request,omitempty" gorm:"foreignKey:RequestID"`
}

func (RequestItem) TableName() string {
	return "request_items"
}

func (i *RequestItem) String() string {
	name := strings.TrimSpace(i.Brand + " " + i.Model)
	if name == "" {
		name = strings.ToLower(i.Type)
	}
	if i.UpTo {
		return fmt.Sprintf("up to %dx %s", i.Amount, name)
	}
	return fmt.Sprintf("%dx %s", i.Amount, name)
}

// RenderItemLines renders one line per primary item, with its alternatives
// appended as "A or B or C". The walk keeps a visited set: alternative_for is
// not guarded against cycles at the database level, and an unguarded walk
// would never terminate.
func RenderItemLines(items []RequestItem) []string {
	children := make(map[string][]*RequestItem)
	for idx := range items {
		item := &items[idx]
		if item.AlternativeFor != nil {
			children[*item.AlternativeFor] = append(children[*item.AlternativeFor], item)
		}
	}

	visited := make(map[string]bool)
	var renderChain func(item *RequestItem) string
	renderChain = func(item *RequestItem) string {
		if visited[item.ID] {
			return ""
		}
		visited[item.ID] = true
		out := item.String()
		for _, alt := range children[item.ID] {
			if next := renderChain(alt); next != "" {
				out += " or " + next
			}
		}
		return out
	}

	var lines []string
	for idx := range items {
		item := &items[idx]
		if item.AlternativeFor != nil {
			continue
		}
		if line := renderChain(item); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
