package transport

// ResolvePricingRequest carries the query parameters for a pricing resolution.
// The profile context (country, organization type, entity type) is derived
// from the caller's stored profile, never from the request.
type ResolvePricingRequest struct {
	EngagementModel  string  `form:"engagementModel" validate:"required,min=1,max=100"`
	MembershipStatus string  `form:"membershipStatus" validate:"required,oneof=Active 'Not Active'"`
	Frequency        *string `form:"frequency" validate:"omitempty,billingfrequency"`
	// TransactionAmount lets percentage configurations return a concrete fee.
	TransactionAmount *float64 `form:"transactionAmount" validate:"omitempty,gt=0"`
}

// ComparePricingRequest carries the query parameters for a member/non-member
// side-by-side resolution.
type ComparePricingRequest struct {
	EngagementModel string  `form:"engagementModel" validate:"required,min=1,max=100"`
	Frequency       *string `form:"frequency" validate:"omitempty,billingfrequency"`
}

// PricingConfigurationResponse represents a resolved configuration.
type PricingConfigurationResponse struct {
	EngagementModel       string   `json:"engagementModel"`
	Country               string   `json:"country"`
	OrganizationType      string   `json:"organizationType"`
	EntityType            string   `json:"entityType"`
	MembershipStatus      string   `json:"membershipStatus"`
	BillingFrequency      *string  `json:"billingFrequency,omitempty"`
	CalculatedValue       float64  `json:"calculatedValue"`
	IsPercentage          bool     `json:"isPercentage"`
	CurrencyCode          *string  `json:"currencyCode,omitempty"`
	MembershipDiscountPct *float64 `json:"membershipDiscountPercentage,omitempty"`
}

// FeeQuoteResponse is a concrete computed fee.
type FeeQuoteResponse struct {
	IsPercentage bool    `json:"isPercentage"`
	RatePct      float64 `json:"ratePercentage,omitempty"`
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode,omitempty"`
}

// ResolvePricingResponse is the result of a single resolution.
type ResolvePricingResponse struct {
	Configuration PricingConfigurationResponse `json:"configuration"`
	Fee           *FeeQuoteResponse            `json:"fee,omitempty"`
}

// ComparePricingResponse pairs member and non-member configurations.
type ComparePricingResponse struct {
	Member             *PricingConfigurationResponse `json:"member,omitempty"`
	NonMember          *PricingConfigurationResponse `json:"nonMember,omitempty"`
	DerivedDiscountPct *float64                      `json:"derivedDiscountPercentage,omitempty"`
}

// MembershipFeesResponse is the fee schedule for the caller's context.
type MembershipFeesResponse struct {
	Country          string  `json:"country"`
	OrganizationType string  `json:"organizationType"`
	EntityType       string  `json:"entityType"`
	MonthlyAmount    float64 `json:"monthlyAmount"`
	QuarterlyAmount  float64 `json:"quarterlyAmount"`
	AnnualAmount     float64 `json:"annualAmount"`
	Currency         string  `json:"currency"`
}
