package services

import (
	"testing"

	"github.com/ghuser/oraclegate/services/commodity/domain/models"
)

func id(b byte) models.CommodityID {
	var c models.CommodityID
	c[31] = b
	return c
}

func TestCheckInvariants_Consistent(t *testing.T) {
	s := models.NewSnapshot()
	s.Owners[id(1)] = "alice"
	s.Owners[id(2)] = "bob"
	s.Index["alice"] = []models.CommodityID{id(1)}
	s.Index["bob"] = []models.CommodityID{id(2)}
	s.Index["carol"] = []models.CommodityID{}
	s.Total = 2

	if got := CheckInvariants(s); len(got) != 0 {
		t.Fatalf("expected no violations, got %+v", got)
	}
}

func TestCheckInvariants_Nil(t *testing.T) {
	if got := CheckInvariants(nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestCheckInvariants_Violations(t *testing.T) {
	tests := []struct {
		name  string
		build func(*models.Snapshot)
		kinds []string
	}{
		{
			name: "owned item missing from index",
			build: func(s *models.Snapshot) {
				s.Owners[id(1)] = "alice"
				s.Total = 1
			},
			kinds: []string{ViolationMissingFromIndex},
		},
		{
			name: "index lists an unowned item",
			build: func(s *models.Snapshot) {
				s.Index["alice"] = []models.CommodityID{id(1)}
			},
			kinds: []string{ViolationStaleIndexEntry},
		},
		{
			name: "item listed twice",
			build: func(s *models.Snapshot) {
				s.Owners[id(1)] = "alice"
				s.Index["alice"] = []models.CommodityID{id(1), id(1)}
				s.Total = 1
			},
			kinds: []string{ViolationDuplicateEntry},
		},
		{
			name: "counter drift",
			build: func(s *models.Snapshot) {
				s.Owners[id(1)] = "alice"
				s.Index["alice"] = []models.CommodityID{id(1)}
				s.Total = 3
			},
			kinds: []string{ViolationCounterMismatch},
		},
		{
			name: "transfer left item with sender",
			build: func(s *models.Snapshot) {
				s.Owners[id(1)] = "bob"
				s.Index["alice"] = []models.CommodityID{id(1)}
				s.Index["bob"] = []models.CommodityID{}
				s.Total = 1
			},
			kinds: []string{ViolationMissingFromIndex, ViolationStaleIndexEntry},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewSnapshot()
			tt.build(s)
			got := CheckInvariants(s)
			if len(got) != len(tt.kinds) {
				t.Fatalf("expected %d violations, got %+v", len(tt.kinds), got)
			}
			for i, k := range tt.kinds {
				if got[i].Kind != k {
					t.Errorf("violation %d: expected %s, got %s", i, k, got[i].Kind)
				}
			}
		})
	}
}
