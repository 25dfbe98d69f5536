package standardize

import "insurancedw/internal/parse"

// Kind classifies a canonical field for the type-normalization pass.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindNumeric
)

// Field is one column of the canonical schema.
type Field struct {
	Name string
	Kind Kind
}

// Canonical is the 26-field target schema, in output column order. Every
// standardized record carries exactly these fields, even if null.
var Canonical = []Field{
	{"customer_id", KindText},
	{"customer_name", KindText},
	{"customer_segment", KindText},
	{"marital_status", KindText},
	{"gender", KindText},
	{"dob", KindDate},
	{"effective_start_dt", KindDate},
	{"effective_end_dt", KindDate},
	{"policy_type_id", KindText},
	{"policy_type", KindText},
	{"policy_type_desc", KindText},
	{"policy_id", KindText},
	{"policy_name", KindText},
	{"premium_amt", KindNumeric},
	{"policy_term", KindText},
	{"policy_start_dt", KindDate},
	{"policy_end_dt", KindDate},
	{"next_premium_dt", KindDate},
	{"actual_premium_paid_dt", KindDate},
	{"country", KindText},
	{"region", KindText},
	{"state_or_province", KindText},
	{"city", KindText},
	{"postal_code", KindText},
	{"total_policy_amt", KindNumeric},
	{"premium_amt_paid_tilldate", KindNumeric},
}

// candidates maps each canonical field to its ordered list of acceptable
// source-name variants. The first variant with a usable value wins; the
// canonical name itself always heads the list. This is pure data — the
// resolver in standardize.go is the single generic executor.
var candidates = map[string][]string{
	"customer_id":        {"customer_id", "customer id", "id", "cust_id"},
	"customer_name":      {"customer_name", "customer name", "customer_full_name", "customer"},
	"customer_segment":   {"customer_segment", "segment"},
	"marital_status":     {"marital_status", "maritial_status", "maritalstatus"},
	"gender":             {"gender", "sex"},
	"dob":                {"dob", "date_of_birth", "birth_date", "data_of_birth"},
	"effective_start_dt": {"effective_start_dt", "effective_start_date", "effective_start"},
	"effective_end_dt":   {"effective_end_dt", "effective_end_date", "effective_end"},
	"policy_type_id":     {"policy_type_id", "policy_typeid"},
	// policy_type falls through to the description when the primary
	// candidates are empty.
	"policy_type":               {"policy_type", "policy type", "policy_type_desc"},
	"policy_type_desc":          {"policy_type_desc", "policy type desc", "policytypedesc"},
	"policy_id":                 {"policy_id", "policy id", "policyid"},
	"policy_name":               {"policy_name", "policy name"},
	"premium_amt":               {"premium_amt", "premium amount", "premium_amt_paid"},
	"policy_term":               {"policy_term", "policy term", "term"},
	"policy_start_dt":           {"policy_start_dt", "policy_start_date", "policy_start"},
	"policy_end_dt":             {"policy_end_dt", "policy_end_date", "policy_end"},
	"next_premium_dt":           {"next_premium_dt", "next_premium_date", "next_premium"},
	"actual_premium_paid_dt":    {"actual_premium_paid_dt", "actual_premium_paid_date", "actual_premium_date"},
	"country":                   {"country"},
	"region":                    {"region"},
	"state_or_province":         {"state_or_province", "state or province", "state", "province"},
	"city":                      {"city"},
	"postal_code":               {"postal_code", "postal code", "postalcode", "zip", "zipcode"},
	"total_policy_amt":          {"total_policy_amt", "total policy amount", "total_policy_amount"},
	"premium_amt_paid_tilldate": {"premium_amt_paid_tilldate", "premium_amt_paid_till_date"},
}

// normalizedCandidates holds the candidate lists run through the same column
// normalization applied to input headers, so matching is case-, whitespace-,
// and punctuation-insensitive. Built once at init.
var normalizedCandidates = func() map[string][]string {
	out := make(map[string][]string, len(Canonical))
	for _, f := range Canonical {
		cands, ok := candidates[f.Name]
		if !ok {
			cands = []string{f.Name}
		}
		normed := make([]string, 0, len(cands))
		seen := map[string]struct{}{}
		for _, c := range cands {
			n := parse.NormalizeColumn(c)
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			normed = append(normed, n)
		}
		out[f.Name] = normed
	}
	return out
}()

// Columns returns the canonical column names in output order.
func Columns() []string {
	cols := make([]string, len(Canonical))
	for i, f := range Canonical {
		cols[i] = f.Name
	}
	return cols
}
