package model

// ShipID identifies a purchasable ship class
type ShipID string

// Ship classes available in the shop. The sloop is every player's starting
// ship and is never charged for.
const (
	ShipSloop      ShipID = "sloop"
	ShipSkiff      ShipID = "skiff"
	ShipBrigantine ShipID = "brigantine"
	ShipGalleon    ShipID = "galleon"
)

// ShipClass describes a purchasable ship type.
type ShipClass struct {
	ID          ShipID
	Name        string
	Price       int
	AlwaysOwned bool
}

// ShipCatalog is the fixed price table validators check purchases against.
var ShipCatalog = map[ShipID]ShipClass{
	ShipSloop:      {ID: ShipSloop, Name: "Sloop", Price: 0, AlwaysOwned: true},
	ShipSkiff:      {ID: ShipSkiff, Name: "Skiff", Price: 1000},
	ShipBrigantine: {ID: ShipBrigantine, Name: "Brigantine", Price: 2500},
	ShipGalleon:    {ID: ShipGalleon, Name: "Galleon", Price: 6000},
}

// LookupShip returns the catalog entry for id.
func LookupShip(id ShipID) (ShipClass, bool) {
	c, ok := ShipCatalog[id]
	return c, ok
}
