package plan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Plan struct {
	ID                 int             `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	DurationDays       int             `db:"duration_days" json:"duration_days"`
	Price              decimal.Decimal `db:"price" json:"price"`
	Description        string          `db:"description" json:"description"`
	HasPersonalTrainer bool            `db:"has_personal_trainer" json:"has_personal_trainer"`
	HasLocker          bool            `db:"has_locker" json:"has_locker"`
	HasCardioAccess    bool            `db:"has_cardio_access" json:"has_cardio_access"`
	HasWeightTraining  bool            `db:"has_weight_training" json:"has_weight_training"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	CreatedOn          time.Time       `db:"created_on" json:"created_on"`
	UpdatedOn          time.Time       `db:"updated_on" json:"updated_on"`
}

// Input is the submitted form. Unset flags take the column defaults.
type Input struct {
	Name               string           `json:"name" validate:"required,max=100"`
	DurationDays       int              `json:"duration_days" validate:"required,gt=0"`
	Price              *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Description        string           `json:"description"`
	HasPersonalTrainer bool             `json:"has_personal_trainer"`
	HasLocker          bool             `json:"has_locker"`
	HasCardioAccess    *bool            `json:"has_cardio_access"`
	HasWeightTraining  *bool            `json:"has_weight_training"`
	IsActive           *bool            `json:"is_active"`
}

func (in *Input) price() decimal.Decimal {
	if in.Price == nil {
		return decimal.Zero
	}
	return *in.Price
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
