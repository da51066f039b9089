package policies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"hotel-erp/internal/ports"
	"hotel-erp/internal/shared"
	"hotel-erp/internal/types"
)

const (
	EntityRoom          = "room"
	EntityBooking       = "booking"
	EntityInvoice       = "invoice"
	EntityMenuItem      = "menu-item"
	EntityInventoryItem = "inventory-item"
	EntityWasteLog      = "waste-log"
	EntityLaundryOrder  = "laundry-order"
	EntityTravelRequest = "travel-request"
)

var RoomCandidates = []string{"Room", "Hotel Room", "Rooms", "Room Master"}

var BookingCandidates = []string{"Booking", "Reservation", "Hotel Reservation", "Room Reservation", "Hotel Booking"}

var defaultEntities = []types.Entity{
	{
		Name:       EntityRoom,
		Candidates: RoomCandidates,
		Seed: []types.Record{
			{"room_number": "101", "room_type": "Standard King", "floor": 1, "status": "Available", "rate": 3500},
			{"room_number": "102", "room_type": "Standard Twin", "floor": 1, "status": "Occupied", "rate": 3200, "guest": "James Wilson"},
			{"room_number": "103", "room_type": "Standard King", "floor": 1, "status": "Cleaning", "rate": 3500},
			{"room_number": "201", "room_type": "Deluxe King", "floor": 2, "status": "Occupied", "rate": 5800, "guest": "Sarah Lee"},
			{"room_number": "202", "room_type": "Deluxe Twin", "floor": 2, "status": "Available", "rate": 5500},
			{"room_number": "205", "room_type": "Premium King", "floor": 2, "status": "Reserved", "rate": 7200, "guest": "Anita Sharma"},
			{"room_number": "301", "room_type": "Deluxe Suite", "floor": 3, "status": "Occupied", "rate": 12000, "guest": "Rajesh Kumar"},
			{"room_number": "302", "room_type": "Deluxe Suite", "floor": 3, "status": "Maintenance", "rate": 12000},
			{"room_number": "408", "room_type": "Royal Suite", "floor": 4, "status": "Reserved", "rate": 25000, "guest": "Priya Patel"},
			{"room_number": "410", "room_type": "Presidential Suite", "floor": 4, "status": "Available", "rate": 45000},
		},
	},
	{
		Name:       EntityBooking,
		Candidates: BookingCandidates,
		Seed: []types.Record{
			{"guest_name": "Vikram Singh", "room": "410", "check_in": "2026-02-08", "check_out": "2026-02-12", "status": "Checked In", "amount": 180000, "source": "Direct"},
			{"guest_name": "Emily Clark", "room": "201", "check_in": "2026-02-08", "check_out": "2026-02-10", "status": "Checked In", "amount": 11600, "source": "OTA"},
			{"guest_name": "Anita Sharma", "room": "205", "check_in": "2026-02-10", "check_out": "2026-02-13", "status": "Reserved", "amount": 21600, "source": "Agent"},
			{"guest_name": "Priya Patel", "room": "408", "check_in": "2026-02-11", "check_out": "2026-02-15", "status": "Reserved", "amount": 100000, "source": "Direct"},
		},
	},
	{
		Name:       EntityInvoice,
		Candidates: []string{"Sales Invoice", "Invoice", "Hotel Invoice"},
		Seed: []types.Record{
			{"customer": "Vikram Singh", "room": "410", "grand_total": 184200, "posting_date": "2026-02-12", "status": "Paid"},
			{"customer": "Emily Clark", "room": "201", "grand_total": 12800, "posting_date": "2026-02-10", "status": "Paid"},
			{"customer": "James Wilson", "room": "102", "grand_total": 7600, "posting_date": "2026-02-11", "status": "Unpaid"},
			{"customer": "Rajesh Kumar", "room": "301", "grand_total": 38400, "posting_date": "2026-02-12", "status": "Unpaid"},
			{"customer": "David Chen", "room": "112", "grand_total": 4180, "posting_date": "2026-02-10", "status": "Overdue"},
		},
	},
	{
		Name:       EntityMenuItem,
		Candidates: []string{"Menu Item", "Restaurant Menu Item", "Item"},
		Seed: []types.Record{
			{"item_name": "Butter Chicken", "category": "Main Course", "price": 450, "available": true},
			{"item_name": "Paneer Tikka", "category": "Starters", "price": 320, "available": true},
			{"item_name": "Dal Makhani", "category": "Main Course", "price": 280, "available": true},
			{"item_name": "Chocolate Fondant", "category": "Desserts", "price": 280, "available": false},
		},
	},
	{
		Name:       EntityInventoryItem,
		Candidates: []string{"Inventory Item", "Stock Item", "Item"},
		Seed: []types.Record{
			{"item_name": "Bed Linen Sets", "category": "Housekeeping", "stock": 120, "min_stock": 50, "unit": "sets"},
			{"item_name": "Towels (Bath)", "category": "Housekeeping", "stock": 85, "min_stock": 100, "unit": "pcs"},
			{"item_name": "Rice (kg)", "category": "Kitchen", "stock": 50, "min_stock": 30, "unit": "kg"},
			{"item_name": "Detergent", "category": "Laundry", "stock": 8, "min_stock": 10, "unit": "liters"},
		},
	},
	{
		Name:       EntityWasteLog,
		Candidates: []string{"Waste Log", "Waste Entry", "Waste Management"},
		Seed: []types.Record{
			{"date": "2026-02-09", "category": "Kitchen - Food", "weight_kg": 12, "disposal": "Composting", "cost": 240},
			{"date": "2026-02-09", "category": "Housekeeping - Linen", "weight_kg": 3, "disposal": "Recycling", "cost": 0},
			{"date": "2026-02-08", "category": "Bar - Glass", "weight_kg": 5, "disposal": "Recycling", "cost": 0},
		},
	},
	{
		Name:       EntityLaundryOrder,
		Candidates: []string{"Laundry Order", "Laundry Request", "Laundry"},
		Seed: []types.Record{
			{"room": "301", "guest": "Rajesh Kumar", "items": "3 Shirts, 2 Trousers", "service_type": "Express", "status": "In Progress"},
			{"room": "201", "guest": "Sarah Lee", "items": "1 Dress, 2 Blouses", "service_type": "Regular", "status": "Ready"},
		},
	},
	{
		Name:       EntityTravelRequest,
		Candidates: []string{"Travel Request", "Travel Desk Request", "Transport Request"},
		Seed: []types.Record{
			{"guest": "Rajesh Kumar", "room": "301", "request_type": "Airport Transfer", "details": "DEL Airport to Hotel, 2:00 PM", "status": "Confirmed", "vehicle": "Sedan"},
			{"guest": "Emily Clark", "room": "201", "request_type": "Airport Drop", "details": "Hotel to DEL Airport, 6:00 AM", "status": "Pending"},
		},
	},
}

// EntityCatalog maps logical entity names to candidate doctypes and default
// seed rows.
type EntityCatalog struct {
	entities map[string]types.Entity
}

// NewEntityCatalog builds the catalog. Seed overrides replace the built-in
// rows of the named entity; overrides for unknown entities are rejected.
func NewEntityCatalog(seedOverrides map[string][]types.Record) (EntityCatalog, error) {
	entities := make(map[string]types.Entity, len(defaultEntities))
	for _, entity := range defaultEntities {
		entities[entity.Name] = entity
	}
	for name, rows := range seedOverrides {
		key := shared.NormalizeKey(name)
		entity, ok := entities[key]
		if !ok {
			return EntityCatalog{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("seed override for unknown entity: %s", name))
		}
		entity.Seed = rows
		entities[key] = entity
	}
	return EntityCatalog{entities: entities}, nil
}

// Entity returns a copy of the named entity; plural names are accepted.
func (c EntityCatalog) Entity(name string) (types.Entity, error) {
	key := shared.NormalizeKey(name)
	entity, ok := c.entities[key]
	if !ok {
		entity, ok = c.entities[strings.TrimSuffix(key, "s")]
	}
	if !ok {
		return types.Entity{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown entity: %s (known: %s)", name, strings.Join(c.Names(), ", ")))
	}
	return types.Entity{
		Name:       entity.Name,
		Candidates: append([]string(nil), entity.Candidates...),
		Seed:       append([]types.Record(nil), entity.Seed...),
	}, nil
}

func (c EntityCatalog) Names() []string {
	names := make([]string, 0, len(c.entities))
	for name := range c.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ ports.EntityCatalogPort = EntityCatalog{}
