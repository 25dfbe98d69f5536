package warehouse

import "time"

// DateRow is one row of dim_date. DateID is the date formatted as an 8-digit
// integer (YYYYMMDD).
type DateRow struct {
	DateID     int       `db:"date_id"`
	FullDate   time.Time `db:"full_date"`
	Year       int       `db:"year"`
	Quarter    int       `db:"quarter"`
	Month      int       `db:"month"`
	Day        int       `db:"day"`
	DayName    string    `db:"day_name"`
	WeekOfYear int       `db:"weekofyear"`
}

// AddressRow is one row of dim_address. Missing components are stored as
// empty strings, which is also how the distinct-tuple comparison treats them.
type AddressRow struct {
	AddressID       int    `db:"address_id"`
	Country         string `db:"country"`
	Region          string `db:"region"`
	StateOrProvince string `db:"state_or_province"`
	City            string `db:"city"`
	PostalCode      string `db:"postal_code"`
}

// CustomerRow is one row of dim_customer, keyed by the business customer_id.
type CustomerRow struct {
	CustomerKey   string  `db:"customer_key"`
	Name          *string `db:"customer_name"`
	Segment       *string `db:"customer_segment"`
	MaritalStatus *string `db:"marital_status"`
	Gender        *string `db:"gender"`
	DOBID         *int    `db:"dob_id"`
	AddressID     *int    `db:"address_id"`
}

// PolicyRow is one row of dim_policy, keyed by the business policy_id.
type PolicyRow struct {
	PolicyID string  `db:"policy_id"`
	Name     *string `db:"policy_name"`
	TypeID   *string `db:"policy_type_id"`
	Type     *string `db:"policy_type"`
	TypeDesc *string `db:"policy_type_desc"`
	Term     *string `db:"policy_term"`
}

// FactRow is one row of fact_policy_payments: one per standardized record,
// with every foreign key independently resolved or null.
type FactRow struct {
	CustomerKey             *string  `db:"customer_key"`
	PolicyID                *string  `db:"policy_id"`
	EffectiveStartDateID    *int     `db:"effective_start_date_id"`
	EffectiveEndDateID      *int     `db:"effective_end_date_id"`
	PolicyStartDateID       *int     `db:"policy_start_date_id"`
	PolicyEndDateID         *int     `db:"policy_end_date_id"`
	NextPremiumDateID       *int     `db:"next_premium_date_id"`
	ActualPremiumPaidDateID *int     `db:"actual_premium_paid_date_id"`
	PremiumAmt              *float64 `db:"premium_amt"`
	TotalPolicyAmt          *float64 `db:"total_policy_amt"`
	PremiumPaidTillDate     *float64 `db:"premium_amt_paid_tilldate"`
	DaysDelay               *int     `db:"days_delay"`
	LateFeeEst              *float64 `db:"late_fee_est"`
	AddressID               *int     `db:"address_id"`
}

// Warehouse holds the fully built star schema before persistence.
type Warehouse struct {
	Dates     []DateRow
	Addresses []AddressRow
	Customers []CustomerRow
	Policies  []PolicyRow
	Facts     []FactRow
}
