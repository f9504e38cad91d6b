package model

import "testing"

// 遷移表に載っている遷移だけが通ることを全組み合わせで確認する
func TestCanTransitionUserStatus(t *testing.T) {
	allowed := map[[2]UserStatus]bool{
		{UserStatusNone, UserStatusPending}:                         true,
		{UserStatusPending, UserStatusPendingVerification}:          true,
		{UserStatusPendingVerification, UserStatusApproved}:         true,
		{UserStatusPendingVerification, UserStatusRejected}:         true,
		{UserStatusApproved, UserStatusPending}:                     true, // suspend
		{UserStatusRejected, UserStatusPendingVerification}:         true, // 再提出
	}

	statuses := []UserStatus{
		UserStatusNone, UserStatusPending, UserStatusPendingVerification,
		UserStatusApproved, UserStatusRejected,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]UserStatus{from, to}]
			if got := CanTransitionUserStatus(from, to); got != want {
				t.Errorf("CanTransitionUserStatus(%q, %q) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransitionOrderStatus(t *testing.T) {
	allowed := map[[2]OrderStatus]bool{
		{OrderStatusPending, OrderStatusProcessing}:           true,
		{OrderStatusPending, OrderStatusCancelled}:            true,
		{OrderStatusProcessing, OrderStatusShipped}:           true,
		{OrderStatusProcessing, OrderStatusCancelled}:         true,
		{OrderStatusShipped, OrderStatusOutForDelivery}:       true,
		{OrderStatusShipped, OrderStatusCancelled}:            true,
		{OrderStatusOutForDelivery, OrderStatusDelivered}:     true,
		{OrderStatusOutForDelivery, OrderStatusCancelled}:     true,
	}

	statuses := []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]OrderStatus{from, to}]
			if got := CanTransitionOrderStatus(from, to); got != want {
				t.Errorf("CanTransitionOrderStatus(%q, %q) = %v, want %v", from, to, got, want)
			}
		}
	}
}

// 終端はDELIVEREDとCANCELLEDの2つだけ
func TestIsTerminalOrderStatus(t *testing.T) {
	if !IsTerminalOrderStatus(OrderStatusDelivered) {
		t.Error("DELIVERED should be terminal")
	}
	if !IsTerminalOrderStatus(OrderStatusCancelled) {
		t.Error("CANCELLED should be terminal")
	}
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusOutForDelivery} {
		if IsTerminalOrderStatus(s) {
			t.Errorf("%q should not be terminal", s)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, ok := ParseOrderStatus("SHIPPED"); !ok {
		t.Error("SHIPPED should parse")
	}
	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Error("小文字は受け付けない")
	}
	if _, ok := ParseOrderStatus("PAID"); ok {
		t.Error("未知のステータスは受け付けない")
	}
}

// ルーティングは(status, documents)から導出する
func TestRouteForSeller(t *testing.T) {
	cases := []struct {
		name string
		user User
		want SellerRoute
	}{
		{"登録直後", User{Status: UserStatusPending}, SellerRouteUpload},
		{"書類あり審査待ち", User{Status: UserStatusPendingVerification, IdentityDocURL: "/a", LicenseDocURL: "/b"}, SellerRouteWaiting},
		{"承認済み", User{Status: UserStatusApproved}, SellerRouteDashboard},
		{"却下", User{Status: UserStatusRejected}, SellerRouteRejected},
		{"片方だけ提出", User{Status: UserStatusPending, IdentityDocURL: "/a"}, SellerRouteUpload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RouteForSeller(tc.user); got != tc.want {
				t.Errorf("RouteForSeller() = %q, want %q", got, tc.want)
			}
		})
	}
}
