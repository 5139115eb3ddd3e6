package app

import "testing"

func TestDescriptor(t *testing.T) {
	a := Descriptor()
	if a.Icon != "ngen_visualizer/images/icon.gif" {
		t.Fatalf("icon=%q", a.Icon)
	}
	if a.RootURL != "ngen-visualizer" || a.Color != "#27ae60" {
		t.Fatalf("unexpected descriptor %+v", a)
	}
	if a.FeedbackEmails == nil {
		t.Fatal("feedbackEmails should encode as an empty list")
	}
}

func TestDefaultMapViewBasemapOrder(t *testing.T) {
	v := DefaultMapView()
	want := []string{"OpenStreetMap", "ESRI", "Stamen"}
	if len(v.Basemaps) != len(want) {
		t.Fatalf("basemaps=%v", v.Basemaps)
	}
	for i := range want {
		if v.Basemaps[i] != want[i] {
			t.Fatalf("basemaps[%d]=%q, want %q", i, v.Basemaps[i], want[i])
		}
	}
}
