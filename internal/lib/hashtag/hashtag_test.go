package hashtag

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no hashtags",
			text: "plain text without tags",
			want: []string{},
		},
		{
			name: "single hashtag",
			text: "check out #golang",
			want: []string{"golang"},
		},
		{
			name: "several hashtags",
			text: "#news about #tech and #art",
			want: []string{"news", "tech", "art"},
		},
		{
			name: "duplicates are kept",
			text: "#go #go #go",
			want: []string{"go", "go", "go"},
		},
		{
			name: "digits and underscore",
			text: "release #v2_0 is out",
			want: []string{"v2_0"},
		},
		{
			name: "bare hash is ignored",
			text: "just a # symbol",
			want: []string{},
		},
		{
			name: "hashtag inside word",
			text: "price is 100#usd",
			want: []string{"usd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
