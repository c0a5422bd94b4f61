package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Revenue TransactionType = "revenue"
	Outgo   TransactionType = "outgo"
)

// DateLayout is the wire format of a calendar day.
const DateLayout = "2006-01-02"

// Years outside [MinYear, MaxYear] are rejected so a real day can never
// collide with the zero Date that marks "unset".
const (
	MinYear = 1900
	MaxYear = 9999
)

type (
	TransactionType string

	// Date is a calendar day at local midnight. The time-of-day never
	// participates in comparisons.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID            string          `json:"id"`
		Type          TransactionType `json:"type"`
		Date          Date            `json:"date"`
		Amount        Money           `json:"amount"`
		Memo          string          `json:"memo"`
		Category      string          `json:"category"`
		PaymentMethod string          `json:"paymentMethod"`
	}

	// Draft is a transaction that has not been assigned an id yet.
	Draft struct {
		Type          TransactionType
		Date          Date
		Amount        Money
		Memo          string
		Category      string
		PaymentMethod string
	}
)

var (
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrMemoTooLong          = errors.New("memo too long (max 200 characters)")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// ValidationError reports a malformed field on a write. The store is left
// unchanged whenever one is returned.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (t TransactionType) Valid() bool {
	return t == Revenue || t == Outgo
}

// ParseTransactionType accepts "revenue" and "outgo". The aliases "income"
// and "expense" map to revenue and outgo.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Revenue), "income":
		return Revenue, nil
	case string(Outgo), "expense":
		return Outgo, nil
	}
	return "", invalid("type", ErrInvalidType)
}

// NewDate creates a Date from year, month, day in the local zone.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates t to its calendar day in the local zone.
func DateOf(t time.Time) Date {
	t = t.In(time.Local)
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string with a year of at least MinYear.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, invalid("date", ErrInvalidDate)
	}
	d := Date{Time: t}
	if err := d.Validate(); err != nil {
		return Date{}, invalid("date", err)
	}
	return d, nil
}

func (d Date) Validate() error {
	if d.IsZero() || d.Year() < MinYear || d.Year() > MaxYear {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) Month() int {
	return int(d.Time.Month())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Compare orders two dates by calendar day: -1, 0 or +1.
func (d Date) Compare(o Date) int {
	a := d.Year()*10000 + d.Month()*100 + d.Day()
	b := o.Year()*10000 + o.Month()*100 + o.Day()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Within reports whether d lies in the closed interval [start, end].
// A zero bound leaves that side open.
func (d Date) Within(start, end Date) bool {
	if !start.IsZero() && d.Compare(start) < 0 {
		return false
	}
	if !end.IsZero() && d.Compare(end) > 0 {
		return false
	}
	return true
}

// YearRange returns the first and last day of year.
func YearRange(year int) (Date, Date) {
	return NewDate(year, 1, 1), NewDate(year, 12, 31)
}

// MonthRange returns the first and last day of the month.
func MonthRange(year, month int) (Date, Date) {
	return NewDate(year, month, 1), NewDate(year, month+1, 0)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Draft) Validate() error {
	if !d.Type.Valid() {
		return invalid("type", ErrInvalidType)
	}
	if err := d.Date.Validate(); err != nil {
		return invalid("date", err)
	}
	if err := d.Amount.Validate(); err != nil {
		return invalid("amount", err)
	}
	if len(d.Memo) > 200 {
		return invalid("memo", ErrMemoTooLong)
	}
	return nil
}

// WithID turns the draft into a transaction.
func (d Draft) WithID(id string) Transaction {
	return Transaction{
		ID:            id,
		Type:          d.Type,
		Date:          d.Date,
		Amount:        d.Amount,
		Memo:          d.Memo,
		Category:      d.Category,
		PaymentMethod: d.PaymentMethod,
	}
}

// Draft strips the id, used to pre-populate the record form when editing.
func (t Transaction) Draft() Draft {
	return Draft{
		Type:          t.Type,
		Date:          t.Date,
		Amount:        t.Amount,
		Memo:          t.Memo,
		Category:      t.Category,
		PaymentMethod: t.PaymentMethod,
	}
}

// Validate checks a transaction read back from storage. Unlike drafts, a
// zero amount is accepted because stored amounts only need to be non-negative.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return invalid("id", errors.New("empty id"))
	}
	if !t.Type.Valid() {
		return invalid("type", ErrInvalidType)
	}
	if err := t.Date.Validate(); err != nil {
		return invalid("date", err)
	}
	if t.Amount.Cents < 0 || t.Amount.Cents > MaxAmountCents {
		return invalid("amount", ErrInvalidAmount)
	}
	return nil
}
