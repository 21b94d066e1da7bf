// Package services contains stateless domain services for the commodity bounded context.
// They operate purely on domain types and have no infrastructure dependencies.
package services

import (
	"fmt"
	"sort"

	"github.com/ghuser/oraclegate/services/commodity/domain/models"
)

// Violation kinds reported by CheckInvariants.
const (
	ViolationMissingFromIndex = "missing_from_index"
	ViolationStaleIndexEntry  = "stale_index_entry"
	ViolationDuplicateEntry   = "duplicate_index_entry"
	ViolationCounterMismatch  = "counter_mismatch"
)

// Violation describes one inconsistency between the registry structures.
type Violation struct {
	Kind    string             `json:"kind"`
	Item    models.CommodityID `json:"item"`
	Account models.AccountID   `json:"account,omitempty"`
	Detail  string             `json:"detail"`
}

// CheckInvariants verifies that the account index is exactly the inverse of
// the owner map and that the live counter matches the number of owned items:
//   - every owned item is listed once in its owner's index and nowhere else
//   - no index entry lists an item twice
//   - the counter equals the size of the owner map
//
// Violations are returned sorted by kind, then account, then item.
func CheckInvariants(s *models.Snapshot) []Violation {
	if s == nil {
		return nil
	}
	var out []Violation

	for account, ids := range s.Index {
		seen := make(map[models.CommodityID]int, len(ids))
		for _, id := range ids {
			seen[id]++
			if owner, ok := s.Owners[id]; !ok || owner != account {
				out = append(out, Violation{
					Kind:    ViolationStaleIndexEntry,
					Item:    id,
					Account: account,
					Detail:  fmt.Sprintf("listed for %s but owner map says %q", account, owner),
				})
			}
		}
		for id, n := range seen {
			if n > 1 {
				out = append(out, Violation{
					Kind:    ViolationDuplicateEntry,
					Item:    id,
					Account: account,
					Detail:  fmt.Sprintf("listed %d times", n),
				})
			}
		}
	}

	for id, owner := range s.Owners {
		found := false
		for _, listed := range s.Index[owner] {
			if listed == id {
				found = true
				break
			}
		}
		if !found {
			out = append(out, Violation{
				Kind:    ViolationMissingFromIndex,
				Item:    id,
				Account: owner,
				Detail:  fmt.Sprintf("owned by %s but absent from its index", owner),
			})
		}
	}

	if int(s.Total) != len(s.Owners) {
		out = append(out, Violation{
			Kind:   ViolationCounterMismatch,
			Detail: fmt.Sprintf("counter is %d but %d items are owned", s.Total, len(s.Owners)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].Account != out[j].Account {
			return out[i].Account < out[j].Account
		}
		return out[i].Item.String() < out[j].Item.String()
	})
	return out
}
