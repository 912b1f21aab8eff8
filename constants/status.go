package constants

// PaymentStatus is the canonical payment state stored under "status".
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue" // only ever reported by the model
	PaymentStatusUnknown PaymentStatus = "unknown"
)

// ExtractionMethod records which strategy produced a metadata record.
type ExtractionMethod string

const (
	MethodModel    ExtractionMethod = "model"
	MethodFallback ExtractionMethod = "fallback"
)
