package base

import "testing"

func TestInheritableString(t *testing.T) {
	var s InheritableString
	s.Set("hello")
	if s.Get() != "hello" {
		t.Errorf("expected 'hello', got %s", s.Get())
	}
	s.Set(INHERIT_STRING)
	if !s.IsInheritable() {
		t.Errorf("expected IsInheritable to be true")
	}
	s.Inherit(InheritableString("world"))
	if s != "world" {
		t.Errorf("expected inherit to set value to 'world'")
	}
}

func TestInheritableInt(t *testing.T) {
	var i InheritableInt
	if ok, err := i.CommandLine("j", "-j12"); !ok || err != nil || i.Get() != 12 {
		t.Errorf("expected -j12 to set 12, got %v (ok=%v, err=%v)", i, ok, err)
	}
	if ok, err := i.CommandLine("Jobs", "-Jobs=4"); !ok || err != nil || i.Get() != 4 {
		t.Errorf("expected -Jobs=4 to set 4, got %v (ok=%v, err=%v)", i, ok, err)
	}
	i.Set(INHERIT_STRING)
	Overwrite(&i, InheritableInt(99))
	if i.Get() != 99 {
		t.Errorf("overwrite did not set value")
	}
}

func TestInheritableBool(t *testing.T) {
	var b InheritableBool
	if !b.IsInheritable() {
		t.Fatalf("zero value should be inheritable")
	}
	if ok, _ := b.CommandLine("Shared", "-Shared"); !ok || !b.Get() {
		t.Errorf("expected -Shared to enable the flag")
	}
	if ok, _ := b.CommandLine("Shared", "-no-Shared"); !ok || b.Get() || b.IsInheritable() {
		t.Errorf("expected -no-Shared to disable the flag")
	}
	if ok, _ := b.CommandLine("Shared", "-Shared=ON"); !ok || !b.Get() {
		t.Errorf("expected -Shared=ON to enable the flag")
	}
	if ok, _ := b.CommandLine("Shared", "-SharedLibs"); ok {
		t.Errorf("-SharedLibs should not match -Shared")
	}

	var inherited InheritableBool
	Inherit(&inherited, INHERITABLE_INHERIT, INHERITABLE_FALSE, INHERITABLE_TRUE)
	if inherited != INHERITABLE_FALSE {
		t.Errorf("Inherit: expected first non-inheritable value, got %v", inherited)
	}
}
