package models

// Snapshot is a point-in-time export of the registry's three structures.
type Snapshot struct {
	Owners map[CommodityID]AccountID   `json:"owners"`
	Index  map[AccountID][]CommodityID `json:"index"`
	Total  uint32                      `json:"total"`
}

// NewSnapshot returns an empty Snapshot with initialized maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Owners: make(map[CommodityID]AccountID),
		Index:  make(map[AccountID][]CommodityID),
	}
}
