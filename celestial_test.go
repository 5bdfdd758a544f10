package heron

import "testing"

func TestCelestialObject(t *testing.T) {
	if !Earth.Equals(Earth) {
		t.Fatal("Earth must equal itself")
	}
	if Earth.GM() != 3.986004418e14 {
		t.Fatalf("GM: got %v", Earth.GM())
	}
	if Earth.String() != "Earth body" {
		t.Fatalf("string: got %q", Earth.String())
	}
	for _, name := range []string{"Earth", "earth"} {
		c, err := CelestialObjectFromString(name)
		if err != nil {
			t.Fatalf("err %s", err)
		}
		if !c.Equals(Earth) {
			t.Fatalf("%q did not resolve to Earth", name)
		}
	}
	if _, err := CelestialObjectFromString("Krypton"); err == nil {
		t.Fatal("unknown body must not resolve")
	}
}
