package similarity

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name    string
		got     []string
		want    []string
		missing []string
		extra   []string
	}{
		{"equal sets", []string{"cot", "cat"}, []string{"cat", "cot", "cat"}, nil, nil},
		{"missing", []string{"cat"}, []string{"cat", "cot"}, []string{"cot"}, nil},
		{"extra", []string{"dog", "cat", "bat"}, []string{"cat"}, nil, []string{"bat", "dog"}},
		{"empty", []string{}, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, extra := Diff(tt.got, tt.want)
			if !reflect.DeepEqual(missing, tt.missing) {
				t.Errorf("missing = %v, want %v", missing, tt.missing)
			}
			if !reflect.DeepEqual(extra, tt.extra) {
				t.Errorf("extra = %v, want %v", extra, tt.extra)
			}
		})
	}
}

func TestSortResults(t *testing.T) {
	results := []SearchResult{
		{"look", 1},
		{"book", 0},
		{"cook", 1},
		{"back", 2},
	}
	SortResults(results)

	want := []string{"book", "cook", "look", "back"}
	if got := Words(results); !reflect.DeepEqual(got, want) {
		t.Errorf("sorted words = %v, want %v", got, want)
	}
}
