package dto

import (
	"propshare/internal/usecase"
)

// DashboardOutput is the investor dashboard with the user reduced to UserOutput
type DashboardOutput struct {
	*usecase.Dashboard
	User *UserOutput `json:"user"`
}

func NewDashboardOutput(d *usecase.Dashboard) *DashboardOutput {
	return &DashboardOutput{
		Dashboard: d,
		User:      NewUserOutput(&d.User),
	}
}
