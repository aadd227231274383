package data

import "testing"

func TestSubscriptionQuota(t *testing.T) {
	tests := []struct {
		tier string
		want int
	}{
		{SubscriptionBasic, 1},
		{SubscriptionStandard, 5},
		{SubscriptionPremium, UnlimitedRequests},
		{SubscriptionNone, 0},
		{"unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			if got := SubscriptionQuota(tt.tier); got != tt.want {
				t.Errorf("SubscriptionQuota(%q) = %d; want %d", tt.tier, got, tt.want)
			}
		})
	}
}

func TestRequestQuotaFollowsSubscription(t *testing.T) {
	user := &User{Subscription: SubscriptionBasic}
	if got := user.RequestQuota(); got != 1 {
		t.Errorf("expected quota 1; got %d", got)
	}
	// Changing the tier changes the quota enforced on the next request
	user.Subscription = SubscriptionPremium
	if got := user.RequestQuota(); got != UnlimitedRequests {
		t.Errorf("expected unlimited quota; got %d", got)
	}
}
