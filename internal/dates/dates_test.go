package dates

import (
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestParseSingleDates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "full date",
			input: "25 December 2025",
			want:  []string{"2025-12-25"},
		},
		{
			name:  "abbreviated month",
			input: "3 Mar 2026",
			want:  []string{"2026-03-03"},
		},
		{
			name:  "leading weekday",
			input: "Saturday 4 October 2025",
			want:  []string{"2025-10-04"},
		},
		{
			name:  "abbreviated weekday",
			input: "Sat 4 Oct 2025",
			want:  []string{"2025-10-04"},
		},
		{
			name:  "year defaults to current",
			input: "12 July",
			want:  []string{"2025-07-12"},
		},
		{
			name:  "month before day",
			input: "December 25 2025",
			want:  []string{"2025-12-25"},
		},
		{
			name:  "comma separated",
			input: "Thursday, 25 December, 2025",
			want:  []string{"2025-12-25"},
		},
		{
			name:  "clock time stripped",
			input: "25 December 2025 7.30pm",
			want:  []string{"2025-12-25"},
		},
		{
			name:  "bare clock time stripped",
			input: "25 December 2025 3pm",
			want:  []string{"2025-12-25"},
		},
		{
			name:  "parenthetical stripped",
			input: "25 December 2025 (doors 6pm)",
			want:  []string{"2025-12-25"},
		},
		{
			name:  "garbage text",
			input: "garbage text",
			want:  nil,
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "missing month",
			input: "25 2025",
			want:  nil,
		},
		{
			name:  "missing day",
			input: "December 2025",
			want:  nil,
		},
		{
			name:  "impossible day rejected",
			input: "31 February 2026",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAt(tt.input, testNow)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseAt(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRanges(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "weekday bounded range",
			input: "Mon 3 - Wed 5 March 2026",
			want:  []string{"2026-03-03", "2026-03-04", "2026-03-05"},
		},
		{
			name:  "bare start day inherits end month and year",
			input: "12 - 15 March 2026",
			want:  []string{"2026-03-12", "2026-03-13", "2026-03-14", "2026-03-15"},
		},
		{
			name:  "start with its own month",
			input: "30 April - 2 May 2026",
			want:  []string{"2026-04-30", "2026-05-01", "2026-05-02"},
		},
		{
			name:  "range crossing year boundary",
			input: "30 December 2025 - 2 January 2026",
			want:  []string{"2025-12-30", "2025-12-31", "2026-01-01", "2026-01-02"},
		},
		{
			name:  "zero length range",
			input: "5 - 5 March 2026",
			want:  []string{"2026-03-05"},
		},
		{
			name:  "range with year default",
			input: "3 - 5 July",
			want:  []string{"2025-07-03", "2025-07-04", "2025-07-05"},
		},
		{
			name:  "unresolvable end kills whole range",
			input: "3 - sometime soon",
			want:  nil,
		},
		{
			name:  "unresolvable start kills whole range",
			input: "whenever - 5 March 2026",
			want:  nil,
		},
		{
			name:  "reversed range",
			input: "15 March 2026 - 3 March 2026",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAt(tt.input, testNow)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseAt(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRangeCrossingMonthBoundary(t *testing.T) {
	got := parseAt("28 February - 2 March 2026", testNow)
	want := []string{"2026-02-28", "2026-03-01", "2026-03-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStripNoise(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"25 December (rescheduled) 7.30pm", "25 December  "},
		{"3pm start", " start"},
		{"10.30am - 4pm", " - "},
		{"no noise here", "no noise here"},
	}

	for _, tt := range tests {
		if got := stripNoise(tt.input); got != tt.want {
			t.Errorf("stripNoise(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseUsesCurrentYear(t *testing.T) {
	// Parse (as opposed to parseAt) must fall back to the wall-clock year.
	got := Parse("25 December")
	if len(got) != 1 {
		t.Fatalf("expected one date, got %v", got)
	}
	want := time.Now().UTC().Format("2006") + "-12-25"
	if got[0] != want {
		t.Errorf("Parse(\"25 December\") = %q, want %q", got[0], want)
	}
}
