package model

import "time"

// Settings are the platform-wide limits administrators control.
type Settings struct {
	MaxLoanAmount         float64   `json:"maxLoanAmount" yaml:"maxLoanAmount"`
	MinCreditScore        int       `json:"minCreditScore" yaml:"minCreditScore"`
	MaxLoanTerm           int       `json:"maxLoanTerm" yaml:"maxLoanTerm"`
	AutoApprovalThreshold int       `json:"autoApprovalThreshold" yaml:"autoApprovalThreshold"`
	NotificationEnabled   bool      `json:"notificationEnabled" yaml:"notificationEnabled"`
	MaintenanceMode       bool      `json:"maintenanceMode" yaml:"maintenanceMode"`
	UpdatedAt             time.Time `json:"updatedAt" yaml:"-"`
}

// DefaultSettings returns the factory configuration.
func DefaultSettings() Settings {
	return Settings{
		MaxLoanAmount:         10_000_000,
		MinCreditScore:        300,
		MaxLoanTerm:           60,
		AutoApprovalThreshold: 80,
		NotificationEnabled:   true,
		MaintenanceMode:       false,
	}
}
