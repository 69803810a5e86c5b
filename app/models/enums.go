package models

// ChargeCategory defines how an extra charge recurs for a student.
type ChargeCategory string

const (
	ChargeMonthly         ChargeCategory = "monthly_charges"
	ChargeOncePerLifetime ChargeCategory = "once_per_lifetime"
	ChargeOncePerClass    ChargeCategory = "once_per_class"
	ChargeFine            ChargeCategory = "fine"
)

// SalaryPaymentMode defines how a staff parent's salary covers a linked student's bill.
type SalaryPaymentMode string

const (
	PayModeCutFromSalary SalaryPaymentMode = "cut_from_salary"
	PayModeCustomRatio   SalaryPaymentMode = "custom_ratio"
)

// Gender defines the possible gender values for a student.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// NotificationStatus defines the dispatch state of a fee notification.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)
