package theme

import "testing"

func TestBlend(t *testing.T) {
	if got := blend("#000000", "#000000"); got != "#000000" {
		t.Errorf("blend(black, black) = %s", got)
	}
	if got := blend("#ffffff", "#000000"); got == "#ffffff" || got == "#000000" {
		t.Errorf("blend(white, black) = %s, want a grey", got)
	}
	if got := blend("nope", "#000000"); got != "nope" {
		t.Errorf("blend with a bad colour = %s, want the first colour back", got)
	}
}

func TestForBackgroundDiffers(t *testing.T) {
	dark, light := ForBackground(true), ForBackground(false)
	if dark.Tree.Checked.GetForeground() == light.Tree.Checked.GetForeground() {
		t.Error("dark and light themes share the checked colour")
	}
}
