package jokauth

import (
	"math"
	"reflect"
	"testing"
)

func TestClaimsLookup(t *testing.T) {
	c := Claims{
		"jok": map[string]any{
			"userId": "u1",
			"roles":  []any{"ADMIN", 3, "", "EDITOR"},
			"single": "OWNER",
			"nested": map[string]any{"deep": true},
		},
		"flat": "x",
	}

	if v, ok := c.Lookup("jok.nested.deep"); !ok || v != true {
		t.Fatalf("expected nested lookup, got %v %v", v, ok)
	}
	if _, ok := c.Lookup("jok.userId.more"); ok {
		t.Fatal("lookup through a string must fail")
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Fatal("missing key must fail")
	}
	if s, ok := c.String("flat"); !ok || s != "x" {
		t.Fatalf("unexpected flat string %q %v", s, ok)
	}
	if _, ok := c.String("jok.roles"); ok {
		t.Fatal("array is not a string")
	}

	if got := c.Strings("jok.roles"); !reflect.DeepEqual(got, []string{"ADMIN", "EDITOR"}) {
		t.Fatalf("unexpected roles %v", got)
	}
	if got := c.Strings("jok.single"); !reflect.DeepEqual(got, []string{"OWNER"}) {
		t.Fatalf("single string must become one role, got %v", got)
	}
	if got := c.Strings("jok.nested"); got != nil {
		t.Fatalf("object must yield no roles, got %v", got)
	}

	var nilClaims Claims
	if _, ok := nilClaims.Lookup("jok"); ok {
		t.Fatal("nil claims must not resolve paths")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{float64(0), false},
		{math.NaN(), false},
		{float64(-1), true},
		{"", false},
		{"0", true},
		{map[string]any{}, true},
		{[]any{}, true},
	}
	for _, tc := range tests {
		if got := truthy(tc.v); got != tc.want {
			t.Fatalf("truthy(%#v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}
