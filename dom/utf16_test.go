package dom

import "testing"

func TestUTF16Length(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"hello", 5},
		{"café", 4},
		{"日本語", 3},
		{"a\U0001F600b", 4},
		{"\xff", 1},
	}
	for _, tt := range tests {
		if got := UTF16Length(tt.input); got != tt.want {
			t.Errorf("UTF16Length(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestUTF16OffsetToByteOffset(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   int
	}{
		{"hello", 0, 0},
		{"hello", 5, 5},
		{"hello", 6, -1},
		{"café!", 4, 5},
		{"a\U0001F600b", 3, 5},
		{"a\U0001F600b", 2, -1}, // inside a surrogate pair
		{"abc", -1, -1},
	}
	for _, tt := range tests {
		if got := UTF16OffsetToByteOffset(tt.input, tt.offset); got != tt.want {
			t.Errorf("UTF16OffsetToByteOffset(%q, %d) = %d, want %d", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestUTF16Substring(t *testing.T) {
	tests := []struct {
		input      string
		start, end int
		want       string
	}{
		{"Hello World", 0, 5, "Hello"},
		{"Hello World", 6, 11, "World"},
		{"café au lait", 2, 6, "fé a"},
		{"a\U0001F600b", 1, 4, "\U0001F600b"},
		{"abc", 2, 1, ""},
		{"abc", 1, 10, "bc"},
	}
	for _, tt := range tests {
		if got := UTF16Substring(tt.input, tt.start, tt.end); got != tt.want {
			t.Errorf("UTF16Substring(%q, %d, %d) = %q, want %q", tt.input, tt.start, tt.end, got, tt.want)
		}
	}
}
