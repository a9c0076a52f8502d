package models

import "time"

// Evacuation center wire field names.
const (
	CenterName         = "name"
	CenterAddress      = "address"
	CenterCapacity     = "capacity"
	CenterOccupancy    = "occupancy"
	CenterStatus       = "status"
	CenterContactPhone = "contactPhone"
)

// Evacuation center statuses.
const (
	CenterOpen   = "open"
	CenterFull   = "full"
	CenterClosed = "closed"
)

// EvacuationCenter is a shelter location and its current load.
type EvacuationCenter struct {
	ID           string
	Name         string
	Address      string
	Capacity     int
	Occupancy    int
	Status       string
	ContactPhone string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c EvacuationCenter) GetID() string { return c.ID }

// Available is the number of free places, never negative.
func (c EvacuationCenter) Available() int {
	if c.Occupancy >= c.Capacity {
		return 0
	}
	return c.Capacity - c.Occupancy
}

func (c EvacuationCenter) FieldValue(name string) any {
	switch name {
	case FieldID:
		return c.ID
	case CenterName:
		return c.Name
	case CenterAddress:
		return c.Address
	case CenterCapacity:
		return c.Capacity
	case CenterOccupancy:
		return c.Occupancy
	case CenterStatus:
		return c.Status
	case CenterContactPhone:
		return c.ContactPhone
	case "available":
		return c.Available()
	case FieldCreatedAt:
		return c.CreatedAt
	case FieldUpdatedAt:
		return c.UpdatedAt
	default:
		return nil
	}
}

type EvacuationCenterCodec struct{}

func (EvacuationCenterCodec) Decode(r Resource) (EvacuationCenter, error) {
	c := EvacuationCenter{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	var err error
	if c.Name, err = r.String(CenterName); err != nil {
		return EvacuationCenter{}, err
	}
	if c.Address, err = r.String(CenterAddress); err != nil {
		return EvacuationCenter{}, err
	}
	if c.Capacity, err = r.Int(CenterCapacity); err != nil {
		return EvacuationCenter{}, err
	}
	if c.Occupancy, err = r.Int(CenterOccupancy); err != nil {
		return EvacuationCenter{}, err
	}
	if c.Status, err = r.String(CenterStatus); err != nil {
		return EvacuationCenter{}, err
	}
	if c.ContactPhone, err = r.String(CenterContactPhone); err != nil {
		return EvacuationCenter{}, err
	}
	return c, nil
}

func (EvacuationCenterCodec) Encode(c EvacuationCenter) map[string]any {
	return map[string]any{
		CenterName:         c.Name,
		CenterAddress:      c.Address,
		CenterCapacity:     c.Capacity,
		CenterOccupancy:    c.Occupancy,
		CenterStatus:       c.Status,
		CenterContactPhone: c.ContactPhone,
	}
}
