package models

import "testing"

func TestParseItemStatus(t *testing.T) {
	for _, raw := range []string{"lost", "found", "matched", "claimed"} {
		status, err := ParseItemStatus(raw)
		if err != nil {
			t.Fatalf("ParseItemStatus(%q) вернул ошибку: %v", raw, err)
		}
		if status.String() != raw {
			t.Fatalf("ожидался статус %q, получили %q", raw, status)
		}
	}

	if _, err := ParseItemStatus("stolen"); err == nil {
		t.Fatalf("ожидалась ошибка для неизвестного статуса")
	}
	if _, err := ParseItemStatus(""); err == nil {
		t.Fatalf("ожидалась ошибка для пустого статуса")
	}
}

func TestItemStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    ItemStatus
		to      ItemStatus
		allowed bool
	}{
		{StatusLost, StatusMatched, true},
		{StatusFound, StatusMatched, true},
		{StatusMatched, StatusClaimed, true},
		{StatusLost, StatusClaimed, false},
		{StatusFound, StatusClaimed, false},
		{StatusClaimed, StatusMatched, false},
		{StatusClaimed, StatusLost, false},
		{StatusMatched, StatusLost, false},
		{StatusLost, StatusLost, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: ожидали %v, получили %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestItemStatus_Terminal(t *testing.T) {
	if !StatusClaimed.Terminal() {
		t.Fatalf("claimed должен быть терминальным")
	}
	for _, status := range []ItemStatus{StatusLost, StatusFound, StatusMatched} {
		if status.Terminal() {
			t.Errorf("%s не должен быть терминальным", status)
		}
	}
}
