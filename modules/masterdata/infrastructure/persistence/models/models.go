package models

import (
	"database/sql"
	"time"
)

type Material struct {
	ID        string
	Code      string
	Name      string
	Unit      string
	UnitCost  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Department struct {
	ID        string
	Code      string
	Name      string
	ParentID  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Employee struct {
	ID        string
	Code      string
	FirstName string
	LastName  string
	HiredAt   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
