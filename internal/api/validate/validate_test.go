package validate

import "testing"

func TestPositiveAmount(t *testing.T) {
	for _, v := range []int64{1, 100, 1 << 40} {
		if ef := PositiveAmount("bet_amount", v); ef != nil {
			t.Fatalf("amount %d rejected: %v", v, ef)
		}
	}
	for _, v := range []int64{0, -1, -100} {
		ef := PositiveAmount("bet_amount", v)
		if ef == nil {
			t.Fatalf("amount %d accepted", v)
		}
		if ef.Field != "bet_amount" {
			t.Fatalf("field = %q, want bet_amount", ef.Field)
		}
	}
}

func TestErrsMessage(t *testing.T) {
	errs := Errs{
		{Field: "bet_amount", Msg: "required"},
		{Field: "wager_id", Msg: "required"},
	}
	want := "bet_amount: required; wager_id: required"
	if got := errs.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestRequired(t *testing.T) {
	if ef := Required("wager_id", "  "); ef == nil {
		t.Fatal("blank value accepted")
	}
	if ef := Required("wager_id", "abc"); ef != nil {
		t.Fatalf("non-blank value rejected: %v", ef)
	}
}
