package model

import "testing"

func TestElementKindLogisticsName(t *testing.T) {
	cases := []struct {
		kind ElementKind
		want string
	}{
		{ElementDevice, "device"},
		{ElementSubhub, "collection point"},
		{ElementCollectionPoint, "collection point"},
		{ElementStaticCable, "static cable"},
		{ElementDynamicCable, "dynamic cable"},
		{ElementMooringLine, "mooring line"},
		{ElementFoundation, "foundation"},
		{ElementGeneric, "device"},
	}
	for _, tc := range cases {
		if got := tc.kind.LogisticsName(); got != tc.want {
			t.Errorf("%v.LogisticsName() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestElementKindIsArrayLevel(t *testing.T) {
	if ElementDevice.IsArrayLevel() {
		t.Error("device should not be array level")
	}
	if !ElementStaticCable.IsArrayLevel() {
		t.Error("static cable should be array level")
	}
}

func TestBreakdownSetResolve(t *testing.T) {
	all := []string{"device001", "device002", "device003"}

	got := BreakdownAll().Resolve(all)
	if len(got) != 3 {
		t.Errorf("BreakdownAll resolve = %v, want all three devices", got)
	}

	got = BreakdownOf("device002").Resolve(all)
	if len(got) != 1 || got[0] != "device002" {
		t.Errorf("BreakdownOf resolve = %v, want [device002]", got)
	}
}

func TestBreakdownSetContains(t *testing.T) {
	if !BreakdownAll().Contains("anything") {
		t.Error("all set should contain any device")
	}
	set := BreakdownOf("device001")
	if !set.Contains("device001") || set.Contains("device002") {
		t.Errorf("BreakdownOf(device001) membership wrong")
	}
}
