// Package warehouse derives the star schema from the standardized table and
// persists it to the configured relational sink. The builders in this file
// are pure: they take standardized records and produce dimension/fact rows
// plus the lookup maps that resolve foreign keys. All tables are fully
// rebuilt on every run.
//
// Records without a customer_id or policy_id contribute no row to the
// corresponding dimension; they stay in the fact table with null foreign
// keys, and the standardizer has already flagged them in the issues artifact.
package warehouse

import (
	"sort"
	"time"

	"insurancedw/internal/parse"
	"insurancedw/internal/standardize"
	"insurancedw/internal/tabular"
	"insurancedw/pkg/records"
)

// lateFeeRate and lateFeePeriodDays parameterize the illustrative late-fee
// estimate: premium_amt * rate * max(days_delay, 0) / period.
const (
	lateFeeRate       = 0.025
	lateFeePeriodDays = 30
)

// dateFields are the canonical date-typed fields feeding dim_date.
var dateFields = func() []string {
	var out []string
	for _, f := range standardize.Canonical {
		if f.Kind == standardize.KindDate {
			out = append(out, f.Name)
		}
	}
	return out
}()

// addressFields form the dim_address distinct tuple, in column order.
var addressFields = []string{"country", "region", "state_or_province", "city", "postal_code"}

// addressKey is the comparison form of an address: missing components as
// empty strings. The coercion is for comparison only; source records are not
// mutated.
type addressKey struct {
	country, region, state, city, postal string
}

// Build derives all five warehouse entities from standardized records.
func Build(recs []records.Record) *Warehouse {
	dates, dateIDs := BuildDateDim(recs)
	addrs, addrIDs := BuildAddressDim(recs)
	return &Warehouse{
		Dates:     dates,
		Addresses: addrs,
		Customers: BuildCustomerDim(recs, dateIDs, addrIDs),
		Policies:  BuildPolicyDim(recs),
		Facts:     BuildFact(recs, dateIDs, addrIDs),
	}
}

// TypedRecords re-parses a standardized artifact's string cells into typed
// values according to the canonical schema. The artifact renders dates as ISO
// and numerics as plain decimals, so this is a strict round trip.
func TypedRecords(t *tabular.Table) []records.Record {
	out := make([]records.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(records.Record, len(standardize.Canonical))
		for _, f := range standardize.Canonical {
			v := row[f.Name]
			s, isStr := v.(string)
			if !isStr {
				rec[f.Name] = v
				continue
			}
			switch f.Kind {
			case standardize.KindDate:
				if d, ok := parse.Date(s); ok {
					rec[f.Name] = d
				} else {
					rec[f.Name] = nil
				}
			case standardize.KindNumeric:
				if n, ok := parse.Number(s); ok {
					rec[f.Name] = n
				} else {
					rec[f.Name] = nil
				}
			default:
				if parse.IsNullLike(s) {
					rec[f.Name] = nil
				} else {
					rec[f.Name] = s
				}
			}
		}
		out = append(out, rec)
	}
	return out
}

// BuildDateDim collects every non-null date across the canonical date fields,
// deduplicates, sorts ascending, and derives calendar attributes. The second
// return value maps each date to its surrogate key.
func BuildDateDim(recs []records.Record) ([]DateRow, map[time.Time]int) {
	set := map[time.Time]struct{}{}
	for _, rec := range recs {
		for _, f := range dateFields {
			if d, ok := rec.Date(f); ok {
				set[d] = struct{}{}
			}
		}
	}

	dates := make([]time.Time, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sortDates(dates)

	rows := make([]DateRow, 0, len(dates))
	ids := make(map[time.Time]int, len(dates))
	for _, d := range dates {
		id := DateID(d)
		_, week := d.ISOWeek()
		rows = append(rows, DateRow{
			DateID:     id,
			FullDate:   d,
			Year:       d.Year(),
			Quarter:    (int(d.Month())-1)/3 + 1,
			Month:      int(d.Month()),
			Day:        d.Day(),
			DayName:    d.Weekday().String(),
			WeekOfYear: week,
		})
		ids[d] = id
	}
	return rows, ids
}

// DateID formats a date as its YYYYMMDD surrogate key.
func DateID(d time.Time) int {
	return d.Year()*10000 + int(d.Month())*100 + d.Day()
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}

// BuildAddressDim projects the distinct address tuples in first-seen order
// and assigns sequential surrogate keys starting at 1.
func BuildAddressDim(recs []records.Record) ([]AddressRow, map[addressKey]int) {
	var rows []AddressRow
	ids := map[addressKey]int{}
	for _, rec := range recs {
		key := keyOf(rec)
		if _, seen := ids[key]; seen {
			continue
		}
		id := len(rows) + 1
		ids[key] = id
		rows = append(rows, AddressRow{
			AddressID:       id,
			Country:         key.country,
			Region:          key.region,
			StateOrProvince: key.state,
			City:            key.city,
			PostalCode:      key.postal,
		})
	}
	return rows, ids
}

func keyOf(rec records.Record) addressKey {
	get := func(f string) string {
		s, _ := rec.String(f)
		return s
	}
	return addressKey{
		country: get("country"),
		region:  get("region"),
		state:   get("state_or_province"),
		city:    get("city"),
		postal:  get("postal_code"),
	}
}

// BuildCustomerDim deduplicates records by customer_id, first occurrence
// wins, and resolves the dob and address foreign keys. Records with no
// customer_id are excluded — they are key-integrity defects already surfaced
// by the standardizer, and a dimension row without its business key resolves
// nothing.
func BuildCustomerDim(recs []records.Record, dateIDs map[time.Time]int, addrIDs map[addressKey]int) []CustomerRow {
	var rows []CustomerRow
	seen := map[string]struct{}{}
	for _, rec := range recs {
		id, ok := rec.String("customer_id")
		if !ok || id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		row := CustomerRow{
			CustomerKey:   id,
			Name:          strPtr(rec, "customer_name"),
			Segment:       strPtr(rec, "customer_segment"),
			MaritalStatus: strPtr(rec, "marital_status"),
			Gender:        strPtr(rec, "gender"),
		}
		if dob, ok := rec.Date("dob"); ok {
			if did, ok := dateIDs[dob]; ok {
				row.DOBID = &did
			}
		}
		if aid, ok := addrIDs[keyOf(rec)]; ok {
			row.AddressID = &aid
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildPolicyDim deduplicates records by policy_id, first occurrence wins.
func BuildPolicyDim(recs []records.Record) []PolicyRow {
	var rows []PolicyRow
	seen := map[string]struct{}{}
	for _, rec := range recs {
		id, ok := rec.String("policy_id")
		if !ok || id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, PolicyRow{
			PolicyID: id,
			Name:     strPtr(rec, "policy_name"),
			TypeID:   strPtr(rec, "policy_type_id"),
			Type:     strPtr(rec, "policy_type"),
			TypeDesc: strPtr(rec, "policy_type_desc"),
			Term:     strPtr(rec, "policy_term"),
		})
	}
	return rows
}

// BuildFact emits one row per standardized record. Each of the six date
// foreign keys resolves independently; days_delay needs both premium dates.
// late_fee_est is computed whenever premium_amt is present, with a null or
// negative delay counting as zero, so an on-time or undated payment carries
// an explicit 0 fee rather than null.
func BuildFact(recs []records.Record, dateIDs map[time.Time]int, addrIDs map[addressKey]int) []FactRow {
	rows := make([]FactRow, 0, len(recs))
	for _, rec := range recs {
		row := FactRow{
			CustomerKey:             strPtr(rec, "customer_id"),
			PolicyID:                strPtr(rec, "policy_id"),
			EffectiveStartDateID:    dateFK(rec, "effective_start_dt", dateIDs),
			EffectiveEndDateID:      dateFK(rec, "effective_end_dt", dateIDs),
			PolicyStartDateID:       dateFK(rec, "policy_start_dt", dateIDs),
			PolicyEndDateID:         dateFK(rec, "policy_end_dt", dateIDs),
			NextPremiumDateID:       dateFK(rec, "next_premium_dt", dateIDs),
			ActualPremiumPaidDateID: dateFK(rec, "actual_premium_paid_dt", dateIDs),
			PremiumAmt:              floatPtr(rec, "premium_amt"),
			TotalPolicyAmt:          floatPtr(rec, "total_policy_amt"),
			PremiumPaidTillDate:     floatPtr(rec, "premium_amt_paid_tilldate"),
		}
		if aid, ok := addrIDs[keyOf(rec)]; ok {
			row.AddressID = &aid
		}

		next, okNext := rec.Date("next_premium_dt")
		paid, okPaid := rec.Date("actual_premium_paid_dt")
		if okNext && okPaid {
			delay := int(paid.Sub(next).Hours() / 24)
			row.DaysDelay = &delay
		}
		if row.PremiumAmt != nil {
			// A missing or negative delay contributes zero to the fee.
			delay := 0
			if row.DaysDelay != nil && *row.DaysDelay > 0 {
				delay = *row.DaysDelay
			}
			fee := *row.PremiumAmt * lateFeeRate * float64(delay) / lateFeePeriodDays
			row.LateFeeEst = &fee
		}
		rows = append(rows, row)
	}
	return rows
}

func dateFK(rec records.Record, field string, ids map[time.Time]int) *int {
	d, ok := rec.Date(field)
	if !ok {
		return nil
	}
	id, ok := ids[d]
	if !ok {
		return nil
	}
	return &id
}

func strPtr(rec records.Record, field string) *string {
	s, ok := rec.String(field)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func floatPtr(rec records.Record, field string) *float64 {
	f, ok := rec.Float(field)
	if !ok {
		return nil
	}
	return &f
}
