package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
		{NewDate(1900, 1, 1), true},
		{NewDate(1899, 12, 31), false},
		{NewDate(1, 1, 1), false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Fatalf("unexpected date %v", d)
	}
	if d, err := ParseDate("1900-01-01"); err != nil || d.Validate() != nil {
		t.Fatalf("1900-01-01 expected ok, got %v", err)
	}
	for _, in := range []string{"", "2024-13-01", "2023-02-29", "15/01/2024", "2024-01-15T10:00:00Z", "0001-01-01", "1899-12-31"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("%q expected error", in)
		} else if !IsValidationError(err) {
			t.Fatalf("%q expected ValidationError, got %T", in, err)
		}
	}
}

func TestDateCompareIgnoresTimeOfDay(t *testing.T) {
	morning := Date{Time: time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local)}
	evening := Date{Time: time.Date(2024, 1, 15, 23, 59, 0, 0, time.Local)}
	if morning.Compare(evening) != 0 {
		t.Fatalf("same day should compare equal")
	}
	if NewDate(2024, 1, 14).Compare(morning) != -1 {
		t.Fatalf("expected earlier day to compare lower")
	}
	if !evening.Within(NewDate(2024, 1, 15), NewDate(2024, 1, 15)) {
		t.Fatalf("single-day interval should be inclusive")
	}
	if !morning.Within(Date{}, Date{}) {
		t.Fatalf("open interval should contain every day")
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, 2)
	if start.String() != "2024-02-01" || end.String() != "2024-02-29" {
		t.Fatalf("unexpected range %s..%s", start, end)
	}
	start, end = YearRange(2023)
	if start.String() != "2023-01-01" || end.String() != "2023-12-31" {
		t.Fatalf("unexpected range %s..%s", start, end)
	}
}

func TestParseTransactionType(t *testing.T) {
	cases := map[string]TransactionType{
		"revenue": Revenue,
		" Outgo ": Outgo,
		"expense": Outgo,
		"income":  Revenue,
	}
	for in, want := range cases {
		got, err := ParseTransactionType(in)
		if err != nil || got != want {
			t.Fatalf("%q expected %s, got %s (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParseTransactionType("transfer"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestDraftValidate(t *testing.T) {
	good := Draft{
		Type:   Outgo,
		Date:   NewDate(2024, 1, 1),
		Amount: Money{Cents: 100},
		Memo:   "ok",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	bads := []Draft{
		{Type: "", Date: NewDate(2024, 1, 1), Amount: Money{Cents: 1}},
		{Type: Revenue, Date: Date{}, Amount: Money{Cents: 1}},
		{Type: Revenue, Date: NewDate(2024, 1, 1), Amount: Money{Cents: 0}},
		{Type: Revenue, Date: NewDate(2024, 1, 1), Amount: Money{Cents: -5}},
		{Type: Revenue, Date: NewDate(2024, 1, 1), Amount: Money{Cents: 1}, Memo: string(long)},
	}
	for i, d := range bads {
		err := d.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !IsValidationError(err) {
			t.Fatalf("case %d expected ValidationError, got %T", i, err)
		}
	}
}

func TestDraftInputParse(t *testing.T) {
	d, err := DraftInput{
		Type:          "outgo",
		Date:          "2024-01-20",
		Amount:        "40,00",
		Memo:          "  groceries run ",
		Category:      "groceries",
		PaymentMethod: "card",
	}.Parse()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Amount.Cents != 4000 || d.Memo != "groceries run" || d.Date.String() != "2024-01-20" {
		t.Fatalf("unexpected draft %+v", d)
	}

	_, err = DraftInput{Type: "outgo", Date: "nope", Amount: "1"}.Parse()
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "date" {
		t.Fatalf("expected date ValidationError, got %v", err)
	}
	_, err = DraftInput{Type: "outgo", Date: "2024-01-01", Amount: "abc"}.Parse()
	if !errors.As(err, &ve) || ve.Field != "amount" {
		t.Fatalf("expected amount ValidationError, got %v", err)
	}
}

func TestTransactionJSONShape(t *testing.T) {
	tx := Transaction{
		ID:            "t1",
		Type:          Revenue,
		Date:          NewDate(2024, 1, 15),
		Amount:        Money{Cents: 10000},
		Memo:          "salary",
		Category:      "salary",
		PaymentMethod: "bank",
	}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"t1","type":"revenue","date":"2024-01-15","amount":"100.00","memo":"salary","category":"salary","paymentMethod":"bank"}`
	if string(b) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", b, want)
	}

	var back Transaction
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Date.Compare(tx.Date) != 0 || back.Amount != tx.Amount {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
