package partition

import (
	"strconv"
	"testing"
)

func TestFor_Determinism(t *testing.T) {
	// Same input must always produce the same shard.
	id := For("a.com/x")
	for i := 0; i < 100; i++ {
		if got := For("a.com/x"); got != id {
			t.Fatalf("For(\"a.com/x\") = %d on iteration %d, want %d", got, i, id)
		}
	}
}

func TestFor_Range(t *testing.T) {
	inputs := []string{"", "a", "a.com/", "b.com/x", "very-long-tenant.example.org/some/deeply/nested/page"}
	for _, s := range inputs {
		p := For(s)
		if p < 0 || p >= Count {
			t.Errorf("For(%q) = %d, want [0, %d)", s, p, Count)
		}
	}
}

func TestFor_Distribution(t *testing.T) {
	// 1 000 keys over 256 shards should touch well over 100 of them.
	seen := make(map[int]struct{})
	for i := 0; i < 1000; i++ {
		seen[For("site.com/page-"+strconv.Itoa(i))] = struct{}{}
	}
	if len(seen) < 100 {
		t.Errorf("only %d distinct shards from 1000 inputs, want >= 100", len(seen))
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		host, path, want string
	}{
		{"a.com", "/x", "a.com/x"},
		{"a.com", "x", "a.com/x"},
		{"b.com", "/x", "b.com/x"},
		{"a.com:8080", "/blog/post", "a.com:8080/blog/post"},
	}
	for _, tc := range tests {
		if got := Key(tc.host, tc.path); got != tc.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tc.host, tc.path, got, tc.want)
		}
	}

	if Key("a.com", "/x") == Key("b.com", "/x") {
		t.Fatal("different tenants must not share a key")
	}
}

func TestIsReserved(t *testing.T) {
	for _, p := range []string{"/", "/batch"} {
		if !IsReserved(p) {
			t.Errorf("IsReserved(%q) = false, want true", p)
		}
	}
	for _, p := range []string{"/x", "/batch/1", "/batches"} {
		if IsReserved(p) {
			t.Errorf("IsReserved(%q) = true, want false", p)
		}
	}
}

func TestValidTenant(t *testing.T) {
	for _, h := range []string{"a.com", "a.com:8080", "localhost", "[::1]:8080", "xn--bcher-kva.example"} {
		if !ValidTenant(h) {
			t.Errorf("ValidTenant(%q) = false, want true", h)
		}
	}
	for _, h := range []string{"", "evil.com/x", "/", "a.com x", "a.com\n", "a\"b"} {
		if ValidTenant(h) {
			t.Errorf("ValidTenant(%q) = true, want false", h)
		}
	}
}
