// Package http exposes the ledger as a JSON API.
//
// This file holds the request parsing helpers shared by the handlers.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// maxBodyBytes bounds request bodies; a record form is a few hundred bytes.
const maxBodyBytes = 64 << 10

// RequestBodyParser reads a body once and serves fields from it whether it
// was sent as JSON or as a url-encoded form.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = fmt.Errorf("request body larger than %d bytes", maxBodyBytes)
	}
	return p
}

// Parse decodes the body. JSON is detected by content type or a leading
// brace; everything else is read as a form.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}
	if strings.HasPrefix(p.contentType, "application/json") || body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(body), &p.jsonData); err != nil {
			p.err = fmt.Errorf("decode json body: %w", err)
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(body)
	return p.err
}

// Get returns a sanitized field value, or "" when absent.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// DraftInput collects the record form fields. "paymentMethod" and
// "payment_method" are both accepted.
func (p *RequestBodyParser) DraftInput() core.DraftInput {
	method := p.Get("paymentMethod")
	if method == "" {
		method = p.Get("payment_method")
	}
	return core.DraftInput{
		Type:          p.Get("type"),
		Date:          p.Get("date"),
		Amount:        p.Get("amount"),
		Memo:          p.Get("memo"),
		Category:      p.Get("category"),
		PaymentMethod: method,
	}
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseRange reads a closed date interval from the query: explicit
// from/to (YYYY-MM-DD, either may be omitted), or a year with an optional
// month. No parameters means an open range.
func ParseRange(query url.Values) (from, to core.Date, err error) {
	if v := strings.TrimSpace(query.Get("from")); v != "" {
		if from, err = core.ParseDate(v); err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("from: %w", err)
		}
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		if to, err = core.ParseDate(v); err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("to: %w", err)
		}
	}
	if !from.IsZero() || !to.IsZero() {
		return from, to, nil
	}

	yearStr := strings.TrimSpace(query.Get("year"))
	if yearStr == "" {
		return core.Date{}, core.Date{}, nil
	}
	year, err := parseYear(yearStr)
	if err != nil {
		return core.Date{}, core.Date{}, err
	}
	if m := strings.TrimSpace(query.Get("month")); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil || month < 1 || month > 12 {
			return core.Date{}, core.Date{}, fmt.Errorf("month %q: must be 1-12", m)
		}
		from, to = core.MonthRange(year, month)
		return from, to, nil
	}
	from, to = core.YearRange(year)
	return from, to, nil
}

// ParseCriteria reads filter criteria: q, category, type, from, to.
func ParseCriteria(query url.Values) (ledger.Criteria, error) {
	c := ledger.Criteria{
		Text:     sanitizeInput(query.Get("q")),
		Category: sanitizeInput(query.Get("category")),
	}
	if v := strings.TrimSpace(query.Get("type")); v != "" {
		typ, err := core.ParseTransactionType(v)
		if err != nil {
			return ledger.Criteria{}, err
		}
		c.Type = typ
	}
	from, to, err := ParseRange(query)
	if err != nil {
		return ledger.Criteria{}, err
	}
	c.From, c.To = from, to
	return c, nil
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("year %q: must be between 1 and 9999", s)
	}
	return year, nil
}
