package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectItemLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"catalog"},
			want: []string{"catalog"},
		},
		{
			name: "direct id first token",
			in:   []string{"catalog", "42"},
			want: []string{"catalog", "items", "show", "42"},
		},
		{
			name: "direct id after value flag",
			in:   []string{"catalog", "--base-url", "http://localhost:3001", "42"},
			want: []string{"catalog", "--base-url", "http://localhost:3001", "items", "show", "42"},
		},
		{
			name: "direct id after equals flag",
			in:   []string{"catalog", "--format=edn", "7"},
			want: []string{"catalog", "--format=edn", "items", "show", "7"},
		},
		{
			name: "direct id after bool flag",
			in:   []string{"catalog", "--pretty", "7"},
			want: []string{"catalog", "--pretty", "items", "show", "7"},
		},
		{
			name: "glog verbosity value is not an id",
			in:   []string{"catalog", "-v", "2", "items", "list"},
			want: []string{"catalog", "-v", "2", "items", "list"},
		},
		{
			name: "direct id after double dash",
			in:   []string{"catalog", "--", "9"},
			want: []string{"catalog", "--", "items", "show", "9"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"catalog", "items", "show", "42"},
			want: []string{"catalog", "items", "show", "42"},
		},
		{
			name: "negative number not an id",
			in:   []string{"catalog", "-1"},
			want: []string{"catalog", "-1"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectItemLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
