package workflow

import "testing"

func TestCanResubmit(t *testing.T) {
	cases := []struct {
		role   Role
		status Status
		want   bool
	}{
		{RoleUser, StatusPending, true},
		{RoleUser, StatusRejected, true},
		{RoleUser, StatusRework, true},
		{RoleUser, StatusOnProgress, false},
		{RoleUser, StatusApproved, false},
		{RoleManager, StatusPending, true},
		{RoleManager, StatusOnProgress, true},
		{RoleManager, StatusRejected, true},
		{RoleManager, StatusRework, true},
		{RoleManager, StatusApproved, false},
		{RoleAdmin, StatusApproved, true},
		{RoleAdmin, StatusRework, true},
		{Role("unknown"), StatusPending, false},
	}

	for _, tc := range cases {
		if got := CanResubmit(tc.role, tc.status); got != tc.want {
			t.Errorf("CanResubmit(%s, %s) = %v, want %v", tc.role, tc.status, got, tc.want)
		}
	}
}

func TestCanReview(t *testing.T) {
	if CanReview(RoleUser) {
		t.Error("users must not review")
	}
	if !CanReview(RoleManager) || !CanReview(RoleAdmin) {
		t.Error("managers and admins must review")
	}
}

func TestValidReviewTarget(t *testing.T) {
	if !ValidReviewTarget(StatusOnProgress, StatusApproved) {
		t.Error("on-progress -> approved should be allowed")
	}
	if !ValidReviewTarget(StatusOnProgress, StatusRejected) {
		t.Error("on-progress -> rejected should be allowed")
	}
	if !ValidReviewTarget(StatusRejected, StatusRework) {
		t.Error("rejected -> rework should be allowed")
	}
	if ValidReviewTarget(StatusApproved, StatusRework) {
		t.Error("approved -> rework should not be allowed")
	}
	if ValidReviewTarget(StatusPending, StatusOnProgress) {
		t.Error("on-progress is not a review target")
	}
}

func TestRequiresFeedback(t *testing.T) {
	if !RequiresFeedback(StatusRejected) {
		t.Error("rejection requires feedback")
	}
	if RequiresFeedback(StatusApproved) {
		t.Error("approval feedback is optional")
	}
}

func TestNormalizeDefaultsToOnProgress(t *testing.T) {
	if got := Normalize(""); got != StatusOnProgress {
		t.Errorf("Normalize(\"\") = %s, want on-progress", got)
	}
	if got := Normalize("garbage"); got != StatusOnProgress {
		t.Errorf("Normalize(garbage) = %s, want on-progress", got)
	}
	if got := Normalize("approved"); got != StatusApproved {
		t.Errorf("Normalize(approved) = %s, want approved", got)
	}
}
