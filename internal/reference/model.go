package reference

import "time"

type Country struct {
	ID                  int       `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	ShortName           string    `db:"short_name" json:"short_name"`
	Language            string    `db:"language" json:"language"`
	Currency            string    `db:"currency" json:"currency"`
	PhoneCode           string    `db:"phone_code" json:"phone_code"`
	IsServicesAvailable bool      `db:"is_services_available" json:"is_services_available"`
	IsActive            bool      `db:"is_active" json:"is_active"`
	CreatedOn           time.Time `db:"created_on" json:"created_on"`
	UpdatedOn           time.Time `db:"updated_on" json:"updated_on"`
}

type CountryInput struct {
	Name                string `json:"name" validate:"required,max=100"`
	ShortName           string `json:"short_name" validate:"max=10"`
	Language            string `json:"language" validate:"max=50"`
	Currency            string `json:"currency" validate:"max=10"`
	PhoneCode           string `json:"phone_code" validate:"max=10"`
	IsServicesAvailable bool   `json:"is_services_available"`
	IsActive            *bool  `json:"is_active"`
}

type State struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	CountryID   int       `db:"country_id" json:"country_id"`
	CountryName string    `db:"country_name" json:"country_name"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedOn   time.Time `db:"created_on" json:"created_on"`
	UpdatedOn   time.Time `db:"updated_on" json:"updated_on"`
}

type StateInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	CountryID int    `json:"country_id" validate:"required,gt=0"`
	IsActive  *bool  `json:"is_active"`
}

func active(p *bool) bool {
	if p == nil {
		return true
	}
	return *p
}
