package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-snapshot-kit/internal/config"
	"solana-snapshot-kit/internal/hashlist"
	"solana-snapshot-kit/internal/solana/stub"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	a := newApp()
	a.stdout = &out
	a.now = func() time.Time { return time.Unix(1700000000, 0) }

	root := newRootCommand(a)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand_MissingRPCURL(t *testing.T) {
	_, err := runCommand(t, "snapshot-holders", "--hashlist", "hashlist.json")

	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestRootCommand_MissingHashlistFile(t *testing.T) {
	_, err := runCommand(t, "get-minters-information",
		"--rpc-url", "http://127.0.0.1:1",
		"--hashlist", filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestRootCommand_GetHashlistNeedsOneSource(t *testing.T) {
	_, err := runCommand(t, "get-hashlist", "--rpc-url", "http://127.0.0.1:1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestGetHashlist_WritesSortedMints(t *testing.T) {
	creator := stub.Key("Creator")
	mintA := stub.Key("MintA")
	mintB := stub.Key("MintB")

	account := func(mint string) map[string]interface{} {
		raw, err := base58.Decode(mint)
		require.NoError(t, err)
		return map[string]interface{}{
			"pubkey": "md-" + mint,
			"account": map[string]interface{}{
				"lamports": 1,
				"owner":    "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s",
				"data":     []string{base64.StdEncoding.EncodeToString(raw), "base64"},
			},
		}
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64 `json:"id"`
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getProgramAccounts", req.Method)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  []interface{}{account(mintB), account(mintA), account(mintB)},
		})
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "hashlist.json")
	stdout, err := runCommand(t, "get-hashlist",
		"--rpc-url", server.URL,
		"--creator", creator,
		"--out", out)
	require.NoError(t, err)

	tokens, err := hashlist.Load(out)
	require.NoError(t, err)

	want := []string{mintA, mintB}
	if mintB < mintA {
		want = []string{mintB, mintA}
	}
	assert.Equal(t, want, tokens)
	assert.Contains(t, stdout, "get-hashlist has finished!")
	assert.Contains(t, stdout, "Mints: 2")
}

func TestFinish_WritesMarkdownReport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.md")

	a := newApp()
	var buf bytes.Buffer
	a.stdout = &buf
	a.conf.Report = out
	a.metrics = newTestMetrics()

	err := a.finish(reportFixture(), time.Now(), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# snapshot-holders")
	assert.Contains(t, buf.String(), "Report saved as "+out)
}

func TestFinish_PropagatesRunError(t *testing.T) {
	a := newApp()
	var buf bytes.Buffer
	a.stdout = &buf
	a.metrics = newTestMetrics()

	runErr := errors.New("rpc down")
	err := a.finish(reportFixture(), time.Now(), runErr)

	assert.Equal(t, runErr, err)
	assert.Empty(t, buf.String())
}
