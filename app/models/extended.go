package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryResponse extends a BillingRecord with its transactions and paid total
// for the ledger history report.
type LedgerEntryResponse struct {
	BillingRecord
	StudentName  string          `json:"student_name,omitempty"`
	TotalPayable decimal.Decimal `json:"total_payable"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
}

// DuesSummaryRow is one line of the per-student outstanding dues report.
type DuesSummaryRow struct {
	StudentID        string          `json:"student_id"`
	StudentNo        string          `json:"student_no"`
	StudentName      string          `json:"student_name"`
	ClassName        string          `json:"class_name"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	OutstandingDues  decimal.Decimal `json:"outstanding_dues"`
	LastBilledPeriod string          `json:"last_billed_period"`
}

// DefaulterRow is one line of the defaulters report: a student whose latest
// billing record still carries dues.
type DefaulterRow struct {
	StudentID    string          `json:"student_id"`
	StudentNo    string          `json:"student_no"`
	StudentName  string          `json:"student_name"`
	ClassName    string          `json:"class_name"`
	ForMonth     int             `json:"for_month"`
	ForYear      int             `json:"for_year"`
	Dues         decimal.Decimal `json:"dues"`
	MonthsBehind int             `json:"months_behind"`
	LastPayment  *time.Time      `json:"last_payment,omitempty"`
}
