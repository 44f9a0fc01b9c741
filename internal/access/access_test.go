package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		acc  Account
		want Result
	}{
		{
			name: "suspended overrides admin and subscription",
			acc: Account{
				IsAdmin:                    true,
				IsSuspended:                true,
				IsAdminGrantedSubscription: true,
				TrialStartDate:             timePtr(now),
			},
			want: Result{Allowed: false, Reason: ReasonSuspended},
		},
		{
			name: "admin allowed without trial start date",
			acc:  Account{IsAdmin: true},
			want: Result{Allowed: true, Reason: ReasonAdmin},
		},
		{
			name: "admin granted subscription ignores period end",
			acc: Account{
				IsAdminGrantedSubscription: true,
				SubscriptionStatus:         SubscriptionNone,
			},
			want: Result{Allowed: true, Reason: ReasonSubscriber},
		},
		{
			name: "paid subscription with future period end",
			acc: Account{
				IsSubscriber:                 true,
				SubscriptionStatus:           SubscriptionActive,
				SubscriptionCurrentPeriodEnd: timePtr(now.AddDate(0, 1, 0)),
				TrialStartDate:               timePtr(now.AddDate(0, 0, -30)),
			},
			want: Result{Allowed: true, Reason: ReasonSubscriber},
		},
		{
			name: "lapsed subscription falls through to expired trial",
			acc: Account{
				IsSubscriber:                 true,
				SubscriptionStatus:           SubscriptionActive,
				SubscriptionCurrentPeriodEnd: timePtr(now.AddDate(0, 0, -1)),
				TrialStartDate:               timePtr(now.AddDate(0, 0, -30)),
			},
			want: Result{Allowed: false, Reason: ReasonTrialExpired},
		},
		{
			name: "cancelled subscription inside trial window",
			acc: Account{
				IsSubscriber:                 true,
				SubscriptionStatus:           SubscriptionCancelled,
				SubscriptionCurrentPeriodEnd: timePtr(now.AddDate(0, 1, 0)),
				TrialStartDate:               timePtr(now.AddDate(0, 0, -2)),
			},
			want: Result{Allowed: true, Reason: ReasonTrial, TrialDaysLeft: 5},
		},
		{
			name: "trial on sixth day leaves one day",
			acc: Account{
				TrialStartDate:     timePtr(now.AddDate(0, 0, -6)),
				SubscriptionStatus: SubscriptionNone,
			},
			want: Result{Allowed: true, Reason: ReasonTrial, TrialDaysLeft: 1},
		},
		{
			name: "trial expired on eighth day",
			acc: Account{
				TrialStartDate:     timePtr(now.AddDate(0, 0, -8)),
				SubscriptionStatus: SubscriptionNone,
			},
			want: Result{Allowed: false, Reason: ReasonTrialExpired},
		},
		{
			name: "missing trial start date fails closed",
			acc:  Account{SubscriptionStatus: SubscriptionNone},
			want: Result{Allowed: false, Reason: ReasonTrialExpired},
		},
		{
			name: "trial start exactly seven days ago is expired",
			acc: Account{
				TrialStartDate: timePtr(now.AddDate(0, 0, -7)),
			},
			want: Result{Allowed: false, Reason: ReasonTrialExpired},
		},
		{
			name: "fresh account has full trial",
			acc: Account{
				TrialStartDate: timePtr(now.Add(-time.Hour)),
			},
			want: Result{Allowed: true, Reason: ReasonTrial, TrialDaysLeft: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.acc, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_SingleReason(t *testing.T) {
	// На одном снимке аккаунта причина всегда ровно одна и стабильная.
	now := time.Now().UTC()
	acc := Account{
		IsAdmin:        true,
		TrialStartDate: timePtr(now.AddDate(0, 0, -3)),
	}
	first := Evaluate(acc, now)
	second := Evaluate(acc, now)
	assert.Equal(t, first, second)
	assert.Equal(t, ReasonAdmin, first.Reason)
}

func TestTrialDaysLeft(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		acc  Account
		want int
	}{
		{
			name: "no trial start date",
			acc:  Account{},
			want: 0,
		},
		{
			name: "eight days passed",
			acc:  Account{TrialStartDate: timePtr(now.AddDate(0, 0, -8))},
			want: 0,
		},
		{
			name: "six days passed",
			acc:  Account{TrialStartDate: timePtr(now.AddDate(0, 0, -6))},
			want: 1,
		},
		{
			name: "subscriber still sees trial countdown",
			acc: Account{
				IsSubscriber:                 true,
				SubscriptionStatus:           SubscriptionActive,
				SubscriptionCurrentPeriodEnd: timePtr(now.AddDate(0, 1, 0)),
				TrialStartDate:               timePtr(now.AddDate(0, 0, -2)),
			},
			want: 5,
		},
		{
			name: "start in the future counts as day zero",
			acc:  Account{TrialStartDate: timePtr(now.Add(time.Hour))},
			want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrialDaysLeft(tt.acc, now))
		})
	}
}
