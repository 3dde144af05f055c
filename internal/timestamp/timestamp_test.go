package timestamp

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Date
		wantErr bool
	}{
		{name: "valid", raw: "05-01-2020", want: Date{Day: 5, Month: 1, Year: 2020}},
		{name: "end of year", raw: "31-12-1999", want: Date{Day: 31, Month: 12, Year: 1999}},
		{name: "calendar leniency", raw: "31-02-2021", want: Date{Day: 31, Month: 2, Year: 2021}},
		{name: "single digit day", raw: "5-01-2020", wantErr: true},
		{name: "non numeric", raw: "aa-01-2020", wantErr: true},
		{name: "month out of range", raw: "01-13-2020", wantErr: true},
		{name: "day zero", raw: "00-01-2020", wantErr: true},
		{name: "two digit year", raw: "01-01-20", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedTimestamp) {
					t.Fatalf("expected ErrMalformedTimestamp, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse date: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Clock
		wantErr bool
	}{
		{name: "morning", raw: "9:00am", want: Clock{Hour: 9, Minute: 0}},
		{name: "padded hour", raw: "09:05am", want: Clock{Hour: 9, Minute: 5}},
		{name: "afternoon", raw: "1:30pm", want: Clock{Hour: 13, Minute: 30}},
		{name: "midnight", raw: "12:15am", want: Clock{Hour: 0, Minute: 15}},
		{name: "noon", raw: "12:45pm", want: Clock{Hour: 12, Minute: 45}},
		{name: "upper case suffix", raw: "11:59PM", want: Clock{Hour: 23, Minute: 59}},
		{name: "missing suffix", raw: "9:00", wantErr: true},
		{name: "space before suffix", raw: "9:00 am", wantErr: true},
		{name: "hour zero", raw: "0:10am", wantErr: true},
		{name: "hour thirteen", raw: "13:00pm", wantErr: true},
		{name: "minute out of range", raw: "9:60am", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedTimestamp) {
					t.Fatalf("expected ErrMalformedTimestamp, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse clock: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	ts := Combine(Date{Day: 5, Month: 1, Year: 2020}, Clock{Hour: 0, Minute: 7})
	if got := Format(ts); got != "05-01-2020 12:07am" {
		t.Fatalf("unexpected format: %q", got)
	}
	ts = Combine(Date{Day: 15, Month: 11, Year: 2024}, Clock{Hour: 21, Minute: 0})
	if got := Format(ts); got != "15-11-2024 9:00pm" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	dates := []Date{
		{Day: 1, Month: 1, Year: 2020},
		{Day: 29, Month: 2, Year: 2024},
		{Day: 31, Month: 12, Year: 1999},
	}
	for _, d := range dates {
		for hour := 0; hour < 24; hour++ {
			for _, minute := range []int{0, 1, 30, 59} {
				ts := Combine(d, Clock{Hour: hour, Minute: minute})
				got, err := Parse(Format(ts))
				if err != nil {
					t.Fatalf("parse %q: %v", Format(ts), err)
				}
				if got != ts {
					t.Fatalf("round trip mismatch: %+v -> %q -> %+v", ts, Format(ts), got)
				}
				clock, err := ParseClock(ts.Clock.String())
				if err != nil || clock != ts.Clock {
					t.Fatalf("clock round trip mismatch for %+v: %+v (err: %v)", ts.Clock, clock, err)
				}
				date, err := ParseDate(ts.Date.String())
				if err != nil || date != ts.Date {
					t.Fatalf("date round trip mismatch for %+v: %+v (err: %v)", ts.Date, date, err)
				}
			}
		}
	}
}

func TestParseRejectsMissingClock(t *testing.T) {
	if _, err := Parse("05-01-2020"); !errors.Is(err, ErrMalformedTimestamp) {
		t.Fatalf("expected ErrMalformedTimestamp, got %v", err)
	}
}

func TestSameDay(t *testing.T) {
	morning := Combine(Date{Day: 5, Month: 1, Year: 2020}, Clock{Hour: 0, Minute: 0})
	night := Combine(Date{Day: 5, Month: 1, Year: 2020}, Clock{Hour: 23, Minute: 59})
	next := Combine(Date{Day: 6, Month: 1, Year: 2020}, Clock{Hour: 0, Minute: 0})

	if !SameDay(morning, night) {
		t.Fatal("expected same day for morning and night")
	}
	if SameDay(night, next) {
		t.Fatal("expected different days across midnight")
	}
}

func TestFromTime(t *testing.T) {
	now := time.Date(2020, time.January, 5, 14, 3, 59, 0, time.Local)
	got := FromTime(now)
	want := Combine(Date{Day: 5, Month: 1, Year: 2020}, Clock{Hour: 14, Minute: 3})
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestTextMarshalling(t *testing.T) {
	ts := Combine(Date{Day: 2, Month: 3, Year: 2021}, Clock{Hour: 16, Minute: 20})
	text, err := ts.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(text) != "02-03-2021 4:20pm" {
		t.Fatalf("unexpected text: %q", text)
	}

	var back Timestamp
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != ts {
		t.Fatalf("expected %+v, got %+v", ts, back)
	}
}
