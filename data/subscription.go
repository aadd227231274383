package data

import "github.com/emzola/athenaeum/internal/validator"

const (
	SubscriptionBasic    = "basic"
	SubscriptionStandard = "standard"
	SubscriptionPremium  = "premium"
	SubscriptionNone     = "none"
)

// UnlimitedRequests marks a subscription tier with no cap on concurrently
// active book requests.
const UnlimitedRequests = -1

// SubscriptionQuota maps a subscription tier to the number of concurrently
// active book requests it allows. Changing an account's tier changes the
// quota enforced on the next request; it never revokes requests that have
// already been granted.
func SubscriptionQuota(tier string) int {
	switch tier {
	case SubscriptionBasic:
		return 1
	case SubscriptionStandard:
		return 5
	case SubscriptionPremium:
		return UnlimitedRequests
	default:
		return 0
	}
}

func ValidateSubscription(v *validator.Validator, tier string) {
	v.Check(tier != "", "subscription", "must be provided")
	v.Check(validator.PermittedValue(tier, SubscriptionBasic, SubscriptionStandard, SubscriptionPremium, SubscriptionNone), "subscription", "must be one of basic, standard, premium or none")
}
