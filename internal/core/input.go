package core

import "strings"

// DraftInput is the raw, untrusted shape of a record form submission.
type DraftInput struct {
	Type          string `json:"type"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Memo          string `json:"memo"`
	Category      string `json:"category"`
	PaymentMethod string `json:"paymentMethod"`
}

// Parse validates the raw fields and builds a Draft. The first malformed
// field is reported as a ValidationError.
func (in DraftInput) Parse() (Draft, error) {
	typ, err := ParseTransactionType(in.Type)
	if err != nil {
		return Draft{}, err
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Draft{}, err
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Draft{}, err
	}
	d := Draft{
		Type:          typ,
		Date:          date,
		Amount:        amount,
		Memo:          strings.TrimSpace(in.Memo),
		Category:      strings.TrimSpace(in.Category),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
	}
	return d, d.Validate()
}

// Input renders d back into form fields. A zero amount or date is left
// blank so the form shows an empty field.
func (d Draft) Input() DraftInput {
	in := DraftInput{
		Type:          string(d.Type),
		Date:          d.Date.String(),
		Memo:          d.Memo,
		Category:      d.Category,
		PaymentMethod: d.PaymentMethod,
	}
	if !d.Amount.IsZero() {
		in.Amount = d.Amount.String()
	}
	return in
}
