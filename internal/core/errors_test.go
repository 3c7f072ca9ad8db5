package core_test

import (
	"reflect"
	"testing"

	"expense-desk/internal/core"
)

func TestErrorSetFirstErrorWins(t *testing.T) {
	errs := core.ErrorSet{}
	errs.Add("email", core.ErrRequired)
	errs.Add("email", core.ErrPattern)

	if errs["email"] != core.ErrRequired {
		t.Errorf("second Add overwrote the first error: got %s", errs["email"])
	}
}

func TestErrorSetMergePrefix(t *testing.T) {
	inner := core.ErrorSet{}
	inner.Add("amount", core.ErrMin)
	inner.Add("description", core.ErrRequired)

	outer := core.ErrorSet{}
	outer.Merge("items.abc", inner)
	outer.Merge("", core.ErrorSet{"description": core.ErrMax})

	want := []string{"description", "items.abc.amount", "items.abc.description"}
	if got := outer.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
	if outer["items.abc.amount"] != core.ErrMin {
		t.Errorf("merged kind = %s, want min", outer["items.abc.amount"])
	}
}

func TestErrorSetEmpty(t *testing.T) {
	errs := core.ErrorSet{}
	if !errs.Empty() {
		t.Error("fresh set should be empty")
	}
	errs.Add("x", core.ErrFallback)
	if errs.Empty() || !errs.Has("x") {
		t.Error("set with one entry should not be empty")
	}
}
