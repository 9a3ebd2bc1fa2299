package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

var Categories = []string{"rent", "utilities", "salaries", "equipment", "maintenance", "marketing", "supplies", "other"}

var categoryLabels = map[string]string{
	"rent":        "Rent",
	"utilities":   "Utilities",
	"salaries":    "Salaries",
	"equipment":   "Equipment",
	"maintenance": "Maintenance",
	"marketing":   "Marketing",
	"supplies":    "Supplies",
	"other":       "Other",
}

type Expense struct {
	ID              int             `db:"id" json:"id"`
	Category        string          `db:"category" json:"category"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Description     string          `db:"description" json:"description"`
	ExpenseDate     time.Time       `db:"expense_date" json:"expense_date"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
	ReferenceNumber string          `db:"reference_number" json:"reference_number"`
	AddedBy         *int            `db:"added_by" json:"added_by"`
	AddedByName     *string         `db:"added_by_name" json:"added_by_name"`
	IsRecurring     bool            `db:"is_recurring" json:"is_recurring"`
	CreatedOn       time.Time       `db:"created_on" json:"created_on"`
	UpdatedOn       time.Time       `db:"updated_on" json:"updated_on"`
}

type Input struct {
	Category        string           `json:"category" validate:"required,oneof=rent utilities salaries equipment maintenance marketing supplies other"`
	Amount          *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	Description     string           `json:"description"`
	ExpenseDate     *string          `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod   string           `json:"payment_method" validate:"omitempty,oneof=cash jazzcash easypaisa bank_transfer card"`
	ReferenceNumber string           `json:"reference_number" validate:"max=100"`
	IsRecurring     bool             `json:"is_recurring"`
}

func (in *Input) method() string {
	if in.PaymentMethod == "" {
		return "cash"
	}
	return in.PaymentMethod
}
