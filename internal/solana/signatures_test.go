package solana

import (
	"context"
	"fmt"
	"testing"
)

// pagedRPC serves a fixed signature history, newest first, honoring before/limit.
type pagedRPC struct {
	RPCClient
	history []SignatureInfo
	calls   int
}

func (p *pagedRPC) GetSignaturesForAddress(_ context.Context, _ string, opts *SignaturesOpts) ([]SignatureInfo, error) {
	p.calls++
	sigs := p.history
	if opts.Before != "" {
		for i, s := range sigs {
			if s.Signature == opts.Before {
				sigs = sigs[i+1:]
				break
			}
		}
	}
	if len(sigs) > opts.Limit {
		sigs = sigs[:opts.Limit]
	}
	return sigs, nil
}

func TestGetAllSignaturesForAddress(t *testing.T) {
	tests := []struct {
		total     int
		wantCalls int
	}{
		{0, 1},
		{10, 1},
		{MaxSignaturesPageSize, 2},
		{MaxSignaturesPageSize*2 + 5, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("total=%d", tt.total), func(t *testing.T) {
			rpc := &pagedRPC{}
			for i := 0; i < tt.total; i++ {
				rpc.history = append(rpc.history, SignatureInfo{Signature: fmt.Sprintf("sig-%d", i)})
			}

			all, err := GetAllSignaturesForAddress(context.Background(), rpc, "addr")
			if err != nil {
				t.Fatalf("GetAllSignaturesForAddress: %v", err)
			}
			if len(all) != tt.total {
				t.Errorf("expected %d signatures, got %d", tt.total, len(all))
			}
			if rpc.calls != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, rpc.calls)
			}
			for i, s := range all {
				if s.Signature != fmt.Sprintf("sig-%d", i) {
					t.Fatalf("signature %d out of order: %s", i, s.Signature)
				}
			}
		})
	}
}

func TestGetAllSignaturesForAddress_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := GetAllSignaturesForAddress(ctx, &pagedRPC{}, "addr"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
