// Package model defines domain types for procdash records, plans and metrics.
package model

import (
	"math"
	"strconv"
	"strings"
)

// OnTimeMarker is the localized on-time value written by the spreadsheet export.
const OnTimeMarker = "準時"

// LateMarker is the localized late value written by the spreadsheet export.
const LateMarker = "延遲"

// Field names a record attribute for generic lookups (unique values, grouping).
type Field string

// Record fields.
const (
	FieldDate     Field = "date"
	FieldWeek     Field = "week"
	FieldBuyer    Field = "buyer"
	FieldCategory Field = "category"
	FieldItem     Field = "item"
	FieldQty      Field = "qty"
	FieldAmount   Field = "amount"
	FieldTarget   Field = "target"
	FieldMargin   Field = "margin"
	FieldOnTime   Field = "ontime"
)

// Fields lists every record field in canonical column order.
var Fields = []Field{
	FieldDate, FieldWeek, FieldBuyer, FieldCategory, FieldItem,
	FieldQty, FieldAmount, FieldTarget, FieldMargin, FieldOnTime,
}

// ColumnTitles are the localized column headers, in Fields order.
var ColumnTitles = []string{"日期", "週別", "採購", "類別", "品名", "數量", "金額", "目標", "毛利率", "交期"}

// RawRecord is one untyped input row keyed by canonical field name.
// Values are typically strings (delimited text) or numbers (spreadsheets).
type RawRecord map[string]any

// Record is one procurement line item. Treat values as immutable.
type Record struct {
	Date     string  `json:"date"`
	Week     string  `json:"week"`
	Buyer    string  `json:"buyer"`
	Category string  `json:"category"`
	Item     string  `json:"item"`
	Qty      float64 `json:"qty"`
	Amount   float64 `json:"amount"`
	Target   float64 `json:"target"`
	Margin   float64 `json:"margin"`
	OnTime   bool    `json:"ontime"`
}

// Normalize coerces a raw row into a Record. It never fails: missing or
// malformed numbers become 0, the on-time flag becomes false and strings
// become "".
func Normalize(raw RawRecord) Record {
	return Record{
		Date:     coerceString(raw[string(FieldDate)]),
		Week:     coerceString(raw[string(FieldWeek)]),
		Buyer:    coerceString(raw[string(FieldBuyer)]),
		Category: coerceString(raw[string(FieldCategory)]),
		Item:     coerceString(raw[string(FieldItem)]),
		Qty:      CoerceNumber(raw[string(FieldQty)]),
		Amount:   CoerceNumber(raw[string(FieldAmount)]),
		Target:   CoerceNumber(raw[string(FieldTarget)]),
		Margin:   CoerceNumber(raw[string(FieldMargin)]),
		OnTime:   CoerceOnTime(raw[string(FieldOnTime)]),
	}
}

// CoerceNumber converts a raw cell to a finite float64, or 0.
func CoerceNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CoerceOnTime reports whether a raw cell marks the line as delivered on time.
// Accepted encodings are exactly: the string "1", the number 1, the
// localized OnTimeMarker string, and boolean true. Everything else is false.
func CoerceOnTime(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "1" || t == OnTimeMarker
	case float64:
		return t == 1
	case float32:
		return t == 1
	case int:
		return t == 1
	case int64:
		return t == 1
	case int32:
		return t == 1
	}
	return false
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Value returns the record's value for f rendered as a string, the form used
// for distinct-value listings and grouping keys.
func (r Record) Value(f Field) string {
	switch f {
	case FieldDate:
		return r.Date
	case FieldWeek:
		return r.Week
	case FieldBuyer:
		return r.Buyer
	case FieldCategory:
		return r.Category
	case FieldItem:
		return r.Item
	case FieldQty:
		return strconv.FormatFloat(r.Qty, 'f', -1, 64)
	case FieldAmount:
		return strconv.FormatFloat(r.Amount, 'f', -1, 64)
	case FieldTarget:
		return strconv.FormatFloat(r.Target, 'f', -1, 64)
	case FieldMargin:
		return strconv.FormatFloat(r.Margin, 'f', -1, 64)
	case FieldOnTime:
		return strconv.FormatBool(r.OnTime)
	}
	return ""
}
