// Package genesis loads the initial commodity set from a TOML file and mints
// it into an empty or partially seeded registry.
//
//	caller = "genesis"
//
//	[[commodity]]
//	owner   = "alice"
//	content = "Just some nft text"
//
//	[[commodity]]
//	owner = "bob"
//	id    = "0x2d3c..."
package genesis

import (
	"context"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
)

// Entry is one commodity to mint. Exactly one of ID and Content is set.
type Entry struct {
	Owner   string `toml:"owner"`
	ID      string `toml:"id"`
	Content string `toml:"content"`
}

// File is a decoded genesis file.
type File struct {
	Caller      string  `toml:"caller"`
	Commodities []Entry `toml:"commodity"`
}

// Item is a validated genesis entry.
type Item struct {
	ID    models.CommodityID
	Owner models.AccountID
}

// Minter mints one commodity.
type Minter interface {
	Mint(ctx context.Context, caller models.AccountID, item models.CommodityID, owner models.AccountID) error
}

// Result counts what Apply did.
type Result struct {
	Minted  int
	Skipped int
}

// Load decodes and validates the genesis file at path.
func Load(path string) (*File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("load genesis %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load genesis %s: unknown key %q", path, undecoded[0].String())
	}
	if _, err := f.Items(); err != nil {
		return nil, fmt.Errorf("load genesis %s: %w", path, err)
	}
	return &f, nil
}

// Items validates every entry and resolves its identifier.
func (f *File) Items() ([]Item, error) {
	items := make([]Item, 0, len(f.Commodities))
	seen := make(map[models.CommodityID]int, len(f.Commodities))
	for i, e := range f.Commodities {
		owner, err := models.NewAccountID(e.Owner)
		if err != nil {
			return nil, fmt.Errorf("commodity %d: %w: %w", i, domain.ErrInvalidAccountID, err)
		}

		var id models.CommodityID
		switch {
		case e.ID != "" && e.Content != "":
			return nil, fmt.Errorf("commodity %d: id and content are mutually exclusive", i)
		case e.ID != "":
			if id, err = models.ParseCommodityID(e.ID); err != nil {
				return nil, fmt.Errorf("commodity %d: %w: %w", i, domain.ErrInvalidCommodityID, err)
			}
		case e.Content != "":
			id = models.DigestCommodityID([]byte(e.Content))
		default:
			return nil, fmt.Errorf("commodity %d: one of id or content is required", i)
		}

		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("commodity %d: duplicates commodity %d (%s)", i, prev, id)
		}
		seen[id] = i
		items = append(items, Item{ID: id, Owner: owner})
	}
	return items, nil
}

// Apply mints every entry of f in file order, signing as f.Caller or, when
// unset, defaultCaller. Entries that already exist are skipped so the file
// can be applied repeatedly.
func Apply(ctx context.Context, m Minter, f *File, defaultCaller string, log logger.Logger) (Result, error) {
	var res Result
	items, err := f.Items()
	if err != nil {
		return res, err
	}

	callerName := f.Caller
	if callerName == "" {
		callerName = defaultCaller
	}
	caller, err := models.NewAccountID(callerName)
	if err != nil {
		return res, fmt.Errorf("genesis caller: %w: %w", domain.ErrUnsigned, err)
	}

	for _, it := range items {
		err := m.Mint(ctx, caller, it.ID, it.Owner)
		switch {
		case err == nil:
			res.Minted++
		case errors.Is(err, domain.ErrAlreadyExists):
			res.Skipped++
			log.DebugContext(ctx, "genesis commodity already minted", "item", it.ID)
		default:
			return res, fmt.Errorf("genesis mint %s: %w", it.ID, err)
		}
	}

	log.InfoContext(ctx, "genesis applied", "minted", res.Minted, "skipped", res.Skipped, "caller", caller)
	return res, nil
}
