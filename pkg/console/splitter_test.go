package console

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitterHoldsPartial(t *testing.T) {
	s := NewSplitter()
	got := s.Feed([]byte("a\nb\nc"))
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Feed() = %q, want %q", got, want)
	}
	if s.Pending() != "c" {
		t.Errorf("Pending() = %q, want %q", s.Pending(), "c")
	}

	got = s.Feed([]byte("d\n"))
	if want := []string{"cd"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Feed() = %q, want %q", got, want)
	}
	if s.Pending() != "" {
		t.Errorf("Pending() = %q, want empty", s.Pending())
	}
}

func TestSplitterEmptyLine(t *testing.T) {
	s := NewSplitter()
	got := s.Feed([]byte("\n"))
	if want := []string{""}; !reflect.DeepEqual(got, want) {
		t.Errorf("Feed() = %q, want %q", got, want)
	}
}

func TestSplitterChunking(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
		rest   string
	}{
		{"one chunk", []string{"x\ny\n"}, []string{"x", "y"}, ""},
		{"byte at a time", []string{"h", "i", "\n", "\n", "o"}, []string{"hi", ""}, "o"},
		{"delimiter first", []string{"ab", "\ncd", "\n"}, []string{"ab", "cd"}, ""},
		{"blank lines", []string{"\n\n\n"}, []string{"", "", ""}, ""},
		{"no delimiter", []string{"abc", "def"}, nil, "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSplitter()
			var got []string
			for _, c := range tt.chunks {
				got = append(got, s.Feed([]byte(c))...)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
			if s.Pending() != tt.rest {
				t.Errorf("Pending() = %q, want %q", s.Pending(), tt.rest)
			}
		})
	}
}

func TestSplitterFlush(t *testing.T) {
	s := NewSplitter()
	s.Feed([]byte("tail"))
	line, ok := s.Flush()
	if !ok || line != "tail" {
		t.Errorf("Flush() = (%q, %v), want (tail, true)", line, ok)
	}
	if _, ok := s.Flush(); ok {
		t.Error("second Flush() should report nothing pending")
	}
}

func TestSplitterLongLineStaysWhole(t *testing.T) {
	s := NewSplitter()
	long := strings.Repeat("z", 70000)
	var got []string
	for i := 0; i < len(long); i += 4096 {
		got = append(got, s.Feed([]byte(long[i:min(i+4096, len(long))]))...)
	}
	if len(got) != 0 {
		t.Fatalf("partial emitted before its delimiter: %d lines", len(got))
	}
	got = s.Feed([]byte("\nnext\n"))
	if len(got) != 2 || got[0] != long || got[1] != "next" {
		t.Errorf("Feed() returned %d lines, want the 70000-byte line then %q", len(got), "next")
	}
}
