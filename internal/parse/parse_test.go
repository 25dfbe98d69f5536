package parse

import (
	"testing"
	"time"
)

/*
TestNormalizeColumn covers trimming, case folding, whitespace collapsing, and
punctuation stripping, including headers that already arrive normalized.
*/
func TestNormalizeColumn(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"Customer ID", "customer_id"},
		{"  Customer   ID  ", "customer_id"},
		{"CUSTOMER-ID", "customerid"},
		{"Zip/Postal Code", "zippostal_code"},
		{"policy_id", "policy_id"},
		{"Premium Amount ($)", "premium_amount_"},
		{"", ""},
		{"Résumé Date", "rsum_date"},
	}
	for _, tc := range cases {
		if got := NormalizeColumn(tc.in); got != tc.want {
			t.Errorf("NormalizeColumn(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

/*
TestIsNullLike checks the literal null markers in mixed casing plus whitespace
padding, and confirms that real values are not swallowed.
*/
func TestIsNullLike(t *testing.T) {
	t.Parallel()

	nulls := []string{"", "  ", "nan", "NaN", "NAN", "none", "None", "null", "NULL", " null "}
	for _, s := range nulls {
		if !IsNullLike(s) {
			t.Errorf("IsNullLike(%q) = false, want true", s)
		}
	}

	values := []string{"0", "n/a", "nana", "nil", "united states"}
	for _, s := range values {
		if IsNullLike(s) {
			t.Errorf("IsNullLike(%q) = true, want false", s)
		}
	}
}

/*
TestDate_Layouts walks the accepted layouts and checks that every parse lands
on the same calendar date at midnight UTC, with time components truncated.
*/
func TestDate_Layouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"2023-03-05",
		"2023-03-05 14:30:00",
		"2023/03/05",
		"03/05/2023",
		"3/5/2023",
		"03-05-2023",
		"2023.03.05",
		"05-Mar-2023",
		"Mar 5, 2023",
		"March 5, 2023",
		"  2023-03-05  ",
	}
	for _, in := range inputs {
		got, ok := Date(in)
		if !ok {
			t.Errorf("Date(%q) not parsed", in)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Date(%q) = %v, want %v", in, got, want)
		}
	}
}

/*
TestDate_MonthFirst pins down the ambiguous numeric form: 01/02/2023 is
January 2nd, not February 1st.
*/
func TestDate_MonthFirst(t *testing.T) {
	t.Parallel()

	got, ok := Date("01/02/2023")
	if !ok {
		t.Fatal("Date(\"01/02/2023\") not parsed")
	}
	want := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Date(\"01/02/2023\") = %v, want %v", got, want)
	}
}

/*
TestDate_Rejects verifies that null-like and garbage input comes back with
ok=false rather than a zero date pretending to be real.
*/
func TestDate_Rejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "nan", "None", "not a date", "2023-13-45", "12345678"} {
		if _, ok := Date(in); ok {
			t.Errorf("Date(%q) parsed, want rejection", in)
		}
	}
}

/*
TestNumber covers plain decimals, currency noise, thousands separators, signs,
and rejection of null-like or non-numeric input.
*/
func TestNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1234.5", 1234.5, true},
		{"1,234.50", 1234.5, true},
		{"$1,234.50", 1234.5, true},
		{" $ 99 ", 99, true},
		{"-42", -42, true},
		{"0", 0, true},
		{"", 0, false},
		{"nan", 0, false},
		{"None", 0, false},
		{"12 Main St", 0, false},
	}
	for _, tc := range cases {
		got, ok := Number(tc.in)
		if ok != tc.ok {
			t.Errorf("Number(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("Number(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
