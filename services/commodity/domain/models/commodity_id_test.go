package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseCommodityID(t *testing.T) {
	valid := strings.Repeat("ab", CommodityIDSize)

	t.Run("with 0x prefix", func(t *testing.T) {
		id, err := ParseCommodityID("0x" + valid)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.String() != "0x"+valid {
			t.Fatalf("expected %q, got %q", "0x"+valid, id.String())
		}
	})

	t.Run("without prefix", func(t *testing.T) {
		if _, err := ParseCommodityID(valid); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("uppercase hex normalizes to lowercase", func(t *testing.T) {
		id, err := ParseCommodityID("0X" + strings.ToUpper(valid))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.String() != "0x"+valid {
			t.Fatalf("expected lowercase form, got %q", id.String())
		}
	})

	t.Run("too short returns error", func(t *testing.T) {
		if _, err := ParseCommodityID("0xabcd"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("non-hex returns error", func(t *testing.T) {
		if _, err := ParseCommodityID(strings.Repeat("zz", CommodityIDSize)); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestDigestCommodityID(t *testing.T) {
	id := DigestCommodityID([]byte("Just some nft text"))
	want := "0xec0a9aeb90c1226c87d4613a19f854687472c9d99d888920ba7bdc31376c727a"
	if id.String() != want {
		t.Fatalf("expected %s, got %s", want, id.String())
	}

	if DigestCommodityID([]byte("a")) == DigestCommodityID([]byte("b")) {
		t.Fatal("expected distinct digests for distinct content")
	}
}

func TestCommodityID_IsZero(t *testing.T) {
	var zero CommodityID
	if !zero.IsZero() {
		t.Fatal("expected zero value to report IsZero")
	}
	if DigestCommodityID(nil).IsZero() {
		t.Fatal("digest of empty content must not be zero")
	}
}

func TestCommodityID_JSON(t *testing.T) {
	id := DigestCommodityID([]byte("widget"))

	data, err := json.Marshal(map[string]CommodityID{"item": id})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), id.String()) {
		t.Fatalf("expected hex form in %s", data)
	}

	var decoded map[string]CommodityID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if decoded["item"] != id {
		t.Fatalf("got %v, want %v", decoded["item"], id)
	}

	if err := json.Unmarshal([]byte(`{"item":"0x12"}`), &decoded); err == nil {
		t.Fatal("expected error for short id")
	}
}
