package input

import (
	"testing"
	"time"
)

func TestLookupKey_Named(t *testing.T) {
	cases := []struct {
		name string
		key  string
		vk   int
	}{
		{"Enter", "Enter", 13},
		{"enter", "Enter", 13},
		{"Tab", "Tab", 9},
		{"Escape", "Escape", 27},
		{"esc", "Escape", 27},
		{"return", "Enter", 13},
		{"ArrowDown", "ArrowDown", 40},
		{"down", "ArrowDown", 40},
		{"PageUp", "PageUp", 33},
		{"space", " ", 32},
	}
	for _, c := range cases {
		def, ok := LookupKey(c.name)
		if !ok {
			t.Errorf("LookupKey(%q): not found", c.name)
			continue
		}
		if def.Key != c.key || def.VK != c.vk {
			t.Errorf("LookupKey(%q): got key=%q vk=%d, want key=%q vk=%d",
				c.name, def.Key, def.VK, c.key, c.vk)
		}
	}
}

func TestLookupKey_Literal(t *testing.T) {
	def, ok := LookupKey("a")
	if !ok || def.Code != "KeyA" || def.VK != 65 || def.Text != "a" {
		t.Errorf("literal a: %+v ok=%t", def, ok)
	}
	def, ok = LookupKey("7")
	if !ok || def.Code != "Digit7" || def.VK != 55 {
		t.Errorf("literal 7: %+v ok=%t", def, ok)
	}
	// Unicode characters still type through the char event text.
	def, ok = LookupKey("é")
	if !ok || def.Text != "é" {
		t.Errorf("literal é: %+v ok=%t", def, ok)
	}
}

func TestLookupKey_Unknown(t *testing.T) {
	if _, ok := LookupKey("NoSuchKey"); ok {
		t.Error("multi-char non-named key should not resolve")
	}
}

func TestCharKey_UpperCase(t *testing.T) {
	def := charKey('Z')
	if def.Code != "KeyZ" || def.VK != 90 || def.Text != "Z" {
		t.Errorf("charKey(Z): %+v", def)
	}
}

func TestNamedKeys_NonPrintingHaveNoText(t *testing.T) {
	for _, name := range []string{"tab", "escape", "backspace", "delete", "arrowup", "home"} {
		def := namedKeys[name]
		if def.Text != "" {
			t.Errorf("%s should not emit text, got %q", name, def.Text)
		}
	}
}

func TestJitterPx_Bounds(t *testing.T) {
	for i := 0; i < 200; i++ {
		v := jitterPx(100, 3)
		if v < 97 || v > 103 {
			t.Fatalf("jitterPx out of bounds: %f", v)
		}
	}
	if jitterPx(50, 0) != 50 {
		t.Error("zero jitter should be identity")
	}
}

func TestJitterDelay_Bounds(t *testing.T) {
	base := 50 * time.Millisecond
	for i := 0; i < 200; i++ {
		d := jitterDelay(base)
		if d < 30*time.Millisecond || d > 70*time.Millisecond {
			t.Fatalf("jitterDelay out of bounds: %v", d)
		}
	}
	if jitterDelay(0) != 0 {
		t.Error("zero delay should stay zero")
	}
}

func TestConfig_Defaults(t *testing.T) {
	var c Config
	c.defaults()
	if c.TypeDelay != 50*time.Millisecond {
		t.Errorf("TypeDelay: %v", c.TypeDelay)
	}
	if c.ClickDelay != 60*time.Millisecond {
		t.Errorf("ClickDelay: %v", c.ClickDelay)
	}
	if c.JitterPx != 3 {
		t.Errorf("JitterPx: %f", c.JitterPx)
	}
}

func TestScroll_UnknownDirection(t *testing.T) {
	d := NewDriver(Config{})
	err := d.Scroll(nil, nil, "sideways")
	if err == nil {
		t.Fatal("unknown direction should error before touching the page")
	}
}
