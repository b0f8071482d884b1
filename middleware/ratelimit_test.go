package middleware

import "testing"

func TestKeyLimiter_AllowsBurstThenDenies(t *testing.T) {
	l := NewKeyLimiter(5)

	for i := 0; i < 5; i++ {
		if !l.Allow("acct1") {
			t.Fatalf("call %d denied, want allowed within burst", i+1)
		}
	}
	if l.Allow("acct1") {
		t.Error("call 6 allowed, want denied over burst")
	}
}

func TestKeyLimiter_KeysAreIndependent(t *testing.T) {
	l := NewKeyLimiter(1)

	if !l.Allow("acct1") {
		t.Fatal("first acct1 call denied")
	}
	if l.Allow("acct1") {
		t.Error("second acct1 call allowed, want denied")
	}
	if !l.Allow("acct2") {
		t.Error("acct2 denied, want its own budget")
	}
}
