package history

import "testing"

func TestDecisionApprove(t *testing.T) {
	d := NewDecision(nil)
	d.Approve()

	select {
	case <-d.Done():
	default:
		t.Fatal("Done should be closed after Approve")
	}
	if !d.Approved() {
		t.Error("Approved() = false, want true")
	}
}

func TestDecisionResolutionFirstWins(t *testing.T) {
	d := NewDecision(nil)
	d.Reject()
	d.Approve() // late approve must not flip the outcome

	if d.Approved() {
		t.Error("Approved() = true after Reject-then-Approve, want false")
	}
}

func TestDecisionRevertRunsHookOnce(t *testing.T) {
	calls := 0
	d := NewDecision(func() { calls++ })

	d.Revert()
	d.Revert()
	if calls != 1 {
		t.Errorf("revert hook ran %d times, want 1", calls)
	}
	if !d.Reverted() {
		t.Error("Reverted() = false, want true")
	}

	// Decision stays open after revert.
	select {
	case <-d.Done():
		t.Fatal("Done closed by Revert; decision must stay open")
	default:
	}
}

func TestDecisionRevertAfterResolveIsNoop(t *testing.T) {
	calls := 0
	d := NewDecision(func() { calls++ })

	d.Approve()
	d.Revert()
	if calls != 0 {
		t.Errorf("revert hook ran %d times after resolution, want 0", calls)
	}
}
