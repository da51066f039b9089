package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"hotel-erp/internal/types"
)

// Field aliases for records coming from differently customised doctypes.
// Earlier aliases win.
var (
	nameAliases       = []string{"name", "id"}
	roomNumberAliases = []string{"room_number", "room_no", "room", "name"}
	roomTypeAliases   = []string{"room_type", "type", "category"}
	floorAliases      = []string{"floor", "floor_no"}
	statusAliases     = []string{"status", "room_status", "state"}
	rateAliases       = []string{"rate", "price", "tariff"}
	guestAliases      = []string{"guest", "guest_name", "customer", "customer_name"}
	bookingRoomAlias  = []string{"room", "room_number", "room_no"}
	checkInAliases    = []string{"check_in", "checkin", "from_date", "arrival_date"}
	checkOutAliases   = []string{"check_out", "checkout", "to_date", "departure_date"}
	amountAliases     = []string{"amount", "grand_total", "total", "total_amount"}
	sourceAliases     = []string{"source", "channel", "booking_source"}
	invoiceDateAlias  = []string{"posting_date", "date", "due_date"}
)

func MapRoom(record types.Record) types.RoomView {
	return types.RoomView{
		Name:   FieldText(record, nameAliases...),
		Number: FieldText(record, roomNumberAliases...),
		Type:   FieldText(record, roomTypeAliases...),
		Floor:  FieldInt(record, floorAliases...),
		Status: NormalizeStatus(fieldString(record, statusAliases...)),
		Rate:   ParseAmount(fieldValue(record, rateAliases...)),
		Guest:  FieldText(record, guestAliases...),
	}
}

func MapRooms(records []types.Record) []types.RoomView {
	views := make([]types.RoomView, 0, len(records))
	for _, record := range records {
		views = append(views, MapRoom(record))
	}
	return views
}

func MapBooking(record types.Record) types.BookingView {
	return types.BookingView{
		Name:     FieldText(record, nameAliases...),
		Guest:    FieldText(record, guestAliases...),
		Room:     FieldText(record, bookingRoomAlias...),
		CheckIn:  FieldText(record, checkInAliases...),
		CheckOut: FieldText(record, checkOutAliases...),
		Status:   NormalizeStatus(fieldString(record, statusAliases...)),
		Amount:   ParseAmount(fieldValue(record, amountAliases...)),
		Source:   FieldText(record, sourceAliases...),
	}
}

func MapInvoice(record types.Record) types.InvoiceView {
	return types.InvoiceView{
		Name:   FieldText(record, nameAliases...),
		Guest:  FieldText(record, guestAliases...),
		Room:   FieldText(record, bookingRoomAlias...),
		Amount: ParseAmount(fieldValue(record, amountAliases...)),
		Date:   FieldText(record, invoiceDateAlias...),
		State:  InvoiceStateOf(fieldString(record, statusAliases...)),
	}
}

// InvoiceStateOf buckets an invoice status. Anything not paid or overdue
// counts as pending.
func InvoiceStateOf(raw string) types.InvoiceState {
	folded := foldText(raw)
	switch {
	case strings.Contains(folded, "overdue"):
		return types.InvoiceOverdue
	case strings.Contains(folded, "unpaid"), strings.Contains(folded, "partly"), strings.Contains(folded, "partially"):
		return types.InvoicePending
	case strings.Contains(folded, "paid"):
		return types.InvoicePaid
	default:
		return types.InvoicePending
	}
}

// FieldText returns the first present alias as text, or types.Placeholder.
func FieldText(record types.Record, aliases ...string) string {
	if text := fieldString(record, aliases...); text != "" {
		return text
	}
	return types.Placeholder
}

// FieldInt returns the first present alias as an integer, or 0 when it does
// not parse.
func FieldInt(record types.Record, aliases ...string) int {
	switch value := fieldValue(record, aliases...).(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(math.Round(value))
	case json.Number:
		if parsed, err := value.Int64(); err == nil {
			return int(parsed)
		}
		if parsed, err := value.Float64(); err == nil {
			return int(math.Round(parsed))
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return 0
}

// ParseAmount reads a money value from a number or a formatted string such
// as "₹1,84,200". Unparseable values are zero.
func ParseAmount(value any) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case float64:
		return decimal.NewFromFloat(v)
	case json.Number:
		return parseAmountString(v.String())
	case string:
		return parseAmountString(v)
	default:
		return parseAmountString(fmt.Sprint(v))
	}
}

func parseAmountString(raw string) decimal.Decimal {
	var builder strings.Builder
	seenDigit := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			builder.WriteRune(r)
		case r == '.' && seenDigit:
			builder.WriteRune(r)
		case r == '-' && builder.Len() == 0:
			builder.WriteRune(r)
		}
	}
	amount, err := decimal.NewFromString(builder.String())
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// SummarizeInvoices totals invoice amounts per state.
func SummarizeInvoices(doctype string, records []types.Record) types.BillingSummary {
	summary := types.BillingSummary{
		Doctype: doctype,
		Total:   decimal.Zero,
		Paid:    decimal.Zero,
		Pending: decimal.Zero,
		Overdue: decimal.Zero,
	}
	for _, record := range records {
		invoice := MapInvoice(record)
		summary.InvoiceCount++
		summary.Total = summary.Total.Add(invoice.Amount)
		switch invoice.State {
		case types.InvoicePaid:
			summary.Paid = summary.Paid.Add(invoice.Amount)
			summary.PaidCount++
		case types.InvoiceOverdue:
			summary.Overdue = summary.Overdue.Add(invoice.Amount)
			summary.OverdueCount++
		default:
			summary.Pending = summary.Pending.Add(invoice.Amount)
			summary.PendingCount++
		}
	}
	return summary
}

func fieldValue(record types.Record, aliases ...string) any {
	for _, alias := range aliases {
		value, ok := record[alias]
		if !ok || value == nil {
			continue
		}
		if text, isText := value.(string); isText && strings.TrimSpace(text) == "" {
			continue
		}
		return value
	}
	return nil
}

func fieldString(record types.Record, aliases ...string) string {
	value := fieldValue(record, aliases...)
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
