package notification

import (
	"gymdesk/internal/crud"
)

const (
	Module = "whisper"
	Entity = "emailnotification"
)

func Filters(f *crud.Filter) {
	f.Search("search", "recipient", "subject")
	f.Choice("status", "status", Statuses)
	if v := f.Get("template_name"); v != "" {
		f.Where("template_name = ?", v)
	}
	if v := f.Get("recipient"); v != "" {
		f.Where("recipient ILIKE ?", "%"+v+"%")
	}
}

// NewResource exposes the delivery log read-only.
func NewResource() *crud.Resource[Notification, struct{}] {
	return &crud.Resource[Notification, struct{}]{
		Module: Module,
		Entity: Entity,
		Label:  "Email Notification",
		Path:   "/notifications",
		Table: crud.Table{
			Name:    "email_notifications",
			Select:  columns,
			From:    "email_notifications",
			ID:      "id",
			OrderBy: "created_on DESC, id DESC",
			Created: "created_on",
		},
		Filters: Filters,
		Actions: []crud.Action{crud.ActList, crud.ActDetail},
	}
}
