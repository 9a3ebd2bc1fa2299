package notification

import (
	"time"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusRetry   = "retry"
)

var Statuses = []string{StatusPending, StatusSent, StatusFailed, StatusRetry}

// Notification is the delivery record kept for one recipient.
type Notification struct {
	ID             int       `db:"id" json:"id"`
	Recipient      string    `db:"recipient" json:"recipient"`
	Subject        string    `db:"subject" json:"subject"`
	Body           string    `db:"body" json:"body"`
	Status         string    `db:"status" json:"status"`
	FailedAttempts int       `db:"failed_attempts" json:"failed_attempts"`
	TemplateName   string    `db:"template_name" json:"template_name"`
	ErrorMessage   string    `db:"error_message" json:"error_message"`
	ContentType    *string   `db:"content_type" json:"content_type"`
	ObjectID       *int      `db:"object_id" json:"object_id"`
	CreatedOn      time.Time `db:"created_on" json:"created_on"`
	UpdatedOn      time.Time `db:"updated_on" json:"updated_on"`
}

// Link points a notification at the record that caused it.
type Link struct {
	ContentType string
	ObjectID    int
}

// Request asks the dispatcher for one email to one or more recipients. When
// Data is nil, Body is sent as already rendered HTML.
type Request struct {
	Subject    string
	Template   string
	Data       interface{}
	Body       string
	Recipients []string
	Link       *Link

	// RetryID reuses an existing record instead of creating new ones.
	RetryID int
}

type Result struct {
	IDs    []int  `json:"ids"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (r *Result) Sent() bool {
	return r.Status == StatusSent
}
