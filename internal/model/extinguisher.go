package model

// ExtinguisherType is the extinguishing agent of an extinguisher.
type ExtinguisherType string

// Extinguisher types. The values are persisted and exported verbatim.
const (
	TypeABCPowder ExtinguisherType = "Pó Químico ABC"
	TypeCO2       ExtinguisherType = "Dióxido de Carbono (CO2)"
	TypeWater     ExtinguisherType = "Água Aditivada"
	TypeFoam      ExtinguisherType = "Espuma"
)

// ExtinguisherTypes lists all types in display order.
var ExtinguisherTypes = []ExtinguisherType{TypeABCPowder, TypeCO2, TypeWater, TypeFoam}

// Valid reports whether t is one of the known types.
func (t ExtinguisherType) Valid() bool {
	for _, known := range ExtinguisherTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ExtinguisherStatus is the certified state of an extinguisher. It is set by a
// technician and never derived from the maintenance or expiry dates.
type ExtinguisherStatus string

// Extinguisher statuses.
const (
	StatusOperational      ExtinguisherStatus = "Operacional"
	StatusMaintenance      ExtinguisherStatus = "Em Manutenção"
	StatusExpired          ExtinguisherStatus = "Fora de Prazo"
	StatusNeedsReplacement ExtinguisherStatus = "Substituir em Breve"
)

// ExtinguisherStatuses lists all statuses in display order.
var ExtinguisherStatuses = []ExtinguisherStatus{
	StatusOperational,
	StatusMaintenance,
	StatusExpired,
	StatusNeedsReplacement,
}

// Valid reports whether s is one of the known statuses.
func (s ExtinguisherStatus) Valid() bool {
	for _, known := range ExtinguisherStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Extinguisher is a single piece of fire-extinguishing equipment.
// Dates are kept as YYYY-MM-DD strings.
type Extinguisher struct {
	ID                string             `json:"id"`
	Code              string             `json:"code"`
	Type              ExtinguisherType   `json:"type"`
	Capacity          string             `json:"capacity"`
	Location          string             `json:"location"`
	AssignedEquipment string             `json:"assignedEquipment,omitempty"`
	LastMaintenance   string             `json:"lastMaintenance"`
	ExpiryDate        string             `json:"expiryDate"`
	Status            ExtinguisherStatus `json:"status"`
	Notes             string             `json:"notes,omitempty"`
	HasPhoto          bool               `json:"hasPhoto,omitempty"`
}

// DateLayout is the layout of LastMaintenance and ExpiryDate.
const DateLayout = "2006-01-02"
