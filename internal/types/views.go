package types

import "github.com/shopspring/decimal"

type StatusType string

const (
	StatusAvailable   StatusType = "available"
	StatusOccupied    StatusType = "occupied"
	StatusMaintenance StatusType = "maintenance"
	StatusReserved    StatusType = "reserved"
	StatusCleaning    StatusType = "cleaning"
)

var StatusTypes = []StatusType{
	StatusAvailable,
	StatusOccupied,
	StatusMaintenance,
	StatusReserved,
	StatusCleaning,
}

// Placeholder is rendered for text fields missing from a record.
const Placeholder = "—"

type RoomView struct {
	Name   string          `json:"name"`
	Number string          `json:"number"`
	Type   string          `json:"type"`
	Floor  int             `json:"floor"`
	Status StatusType      `json:"status"`
	Rate   decimal.Decimal `json:"rate"`
	Guest  string          `json:"guest"`
}

type BookingView struct {
	Name     string          `json:"name"`
	Guest    string          `json:"guest"`
	Room     string          `json:"room"`
	CheckIn  string          `json:"checkin"`
	CheckOut string          `json:"checkout"`
	Status   StatusType      `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Source   string          `json:"source"`
}

type InvoiceState string

const (
	InvoicePaid    InvoiceState = "paid"
	InvoicePending InvoiceState = "pending"
	InvoiceOverdue InvoiceState = "overdue"
)

type InvoiceView struct {
	Name   string          `json:"name"`
	Guest  string          `json:"guest"`
	Room   string          `json:"room"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	State  InvoiceState    `json:"state"`
}

type BillingSummary struct {
	Doctype      string          `json:"doctype"`
	InvoiceCount int             `json:"invoiceCount"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Pending      decimal.Decimal `json:"pending"`
	Overdue      decimal.Decimal `json:"overdue"`
	PaidCount    int             `json:"paidCount"`
	PendingCount int             `json:"pendingCount"`
	OverdueCount int             `json:"overdueCount"`
}
