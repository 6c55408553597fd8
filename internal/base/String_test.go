package base

import "testing"

func TestStringSet(t *testing.T) {
	set := NewStringSet("clang", "lld", "clang")
	if set.Len() != 2 {
		t.Fatalf("NewStringSet: expected 2 unique entries, got %v", set)
	}
	set.AppendUniq("lldb", "lld")
	if set.Join(";") != "clang;lld;lldb" {
		t.Errorf("StringSet.Join: got %q", set.Join(";"))
	}
	if !set.Contains("lld", "lldb") || set.Contains("polly") {
		t.Errorf("StringSet.Contains: unexpected result for %v", set)
	}
	if n := set.Remove("lld", "polly"); n != 1 {
		t.Errorf("StringSet.Remove: expected 1 removal, got %d", n)
	}
	if err := set.Set(" a, b ,,c"); err != nil || set.String() != "a,b,c" {
		t.Errorf("StringSet.Set: got %q (err=%v)", set.String(), err)
	}
}
