package idhash

import (
	"testing"
)

func TestHashlistDigest(t *testing.T) {
	a := HashlistDigest([]string{"TokenA", "TokenB"})
	b := HashlistDigest([]string{"TokenA", "TokenB"})
	reversed := HashlistDigest([]string{"TokenB", "TokenA"})

	if len(a) != 64 {
		t.Errorf("HashlistDigest() length = %d, want 64", len(a))
	}
	if a != b {
		t.Errorf("HashlistDigest() not deterministic: %s != %s", a, b)
	}
	if a == reversed {
		t.Error("HashlistDigest() should depend on token order")
	}

	// Joining must not let two different lists collide.
	if HashlistDigest([]string{"ab", "c"}) == HashlistDigest([]string{"a", "bc"}) {
		t.Error("HashlistDigest() collides on different splits")
	}
}

func TestComputeSnapshotID(t *testing.T) {
	digest := HashlistDigest([]string{"TokenA"})

	tests := []struct {
		name    string
		vault   string
		takenAt int64
	}{
		{name: "no vault", vault: "", takenAt: 1700000000000},
		{name: "with vault", vault: "VaultAddr", takenAt: 1700000000000},
		{name: "later run", vault: "VaultAddr", takenAt: 1700000000001},
	}

	seen := make(map[string]string)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSnapshotID(digest, tt.vault, tt.takenAt)

			if len(got) != 64 {
				t.Errorf("ComputeSnapshotID() length = %d, want 64", len(got))
			}

			got2 := ComputeSnapshotID(digest, tt.vault, tt.takenAt)
			if got != got2 {
				t.Errorf("ComputeSnapshotID() not deterministic: %s != %s", got, got2)
			}

			if other, dup := seen[got]; dup {
				t.Errorf("ComputeSnapshotID() collision with %q", other)
			}
			seen[got] = tt.name
		})
	}
}

func TestComputeRunID(t *testing.T) {
	digest := HashlistDigest([]string{"TokenA"})

	got := ComputeRunID("get-minters-information", digest, 1)
	if len(got) != 64 {
		t.Errorf("ComputeRunID() length = %d, want 64", len(got))
	}
	if got != ComputeRunID("get-minters-information", digest, 1) {
		t.Error("ComputeRunID() not deterministic")
	}
	if got == ComputeRunID("get-minters-information", digest, 2) {
		t.Error("ComputeRunID() should depend on start time")
	}
}
