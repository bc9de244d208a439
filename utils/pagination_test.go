package utils

import "testing"

func TestParsePageParamsDefaults(t *testing.T) {
	offset, limit, err := ParsePageParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offset != 0 || limit != DefaultPageLimit {
		t.Errorf("got (%d, %d), want (0, %d)", offset, limit, DefaultPageLimit)
	}
}

func TestParsePageParamsExplicit(t *testing.T) {
	offset, limit, err := ParsePageParams("20", "50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offset != 20 || limit != 50 {
		t.Errorf("got (%d, %d), want (20, 50)", offset, limit)
	}
}

func TestParsePageParamsRejectsInvalid(t *testing.T) {
	cases := []struct {
		name   string
		offset string
		limit  string
	}{
		{"negative offset", "-1", ""},
		{"zero limit", "", "0"},
		{"limit above max", "", "101"},
		{"non-numeric offset", "abc", ""},
		{"non-numeric limit", "", "ten"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := ParsePageParams(tc.offset, tc.limit); err == nil {
				t.Errorf("expected error for offset=%q limit=%q", tc.offset, tc.limit)
			}
		})
	}
}

func TestParsePageParamsBoundaryLimits(t *testing.T) {
	if _, limit, err := ParsePageParams("", "1"); err != nil || limit != 1 {
		t.Errorf("limit=1 should be valid, got limit=%d err=%v", limit, err)
	}
	if _, limit, err := ParsePageParams("", "100"); err != nil || limit != 100 {
		t.Errorf("limit=100 should be valid, got limit=%d err=%v", limit, err)
	}
}
