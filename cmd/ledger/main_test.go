package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/controller"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/server"
	"github.com/Veraticus/spice-ledger/internal/store"
	"github.com/Veraticus/spice-ledger/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService starts the reference service on a fresh database and
// returns its base URL.
func newTestService(t *testing.T) string {
	t.Helper()

	db := testutil.SetupTestDB(t)
	ts := httptest.NewServer(server.New(db.Storage, slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(ts.Close)
	return ts.URL
}

// execute runs the CLI against baseURL with a throwaway config file.
func execute(t *testing.T, baseURL, stdin string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := fmt.Sprintf("api:\n  base_url: %s\n  timeout: 5s\nlogging:\n  level: error\n", baseURL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "http://localhost:5000", "", "version")
	require.NoError(t, err)
	assert.Equal(t, "ledger dev\n", out)
}

func TestAddAndList(t *testing.T) {
	url := newTestService(t)

	out, err := execute(t, url, "", "add", " Food ", "12.50")
	require.NoError(t, err)
	assert.Contains(t, out, "Expense added (1 expenses)")

	_, err = execute(t, url, "", "add", "Fuel", "40")
	require.NoError(t, err)

	out, err = execute(t, url, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "$12.50")
	assert.Contains(t, out, "$40.00")
	assert.Contains(t, out, "2 expenses")
	// Server order is newest first.
	assert.Less(t, strings.Index(out, "Fuel"), strings.Index(out, "Food"))
}

func TestListFilterAndSort(t *testing.T) {
	url := newTestService(t)
	for _, args := range [][]string{{"Food", "12.50"}, {"Fuel", "40"}, {"Rent", "1200"}} {
		_, err := execute(t, url, "", append([]string{"add"}, args...)...)
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		args    []string
		want    []string
		absent  []string
		summary string
	}{
		{
			name:    "prefix filter",
			args:    []string{"--filter", "fo"},
			want:    []string{"Food"},
			absent:  []string{"Fuel", "Rent"},
			summary: "1 of 3 expenses",
		},
		{
			name:    "substring filter",
			args:    []string{"--filter", "en", "--match", "substring"},
			want:    []string{"Rent"},
			absent:  []string{"Food", "Fuel"},
			summary: "1 of 3 expenses",
		},
		{
			name:    "amount ascending",
			args:    []string{"--sort", "amount"},
			want:    []string{"Food", "Fuel", "Rent"},
			summary: "3 expenses",
		},
		{
			name:    "amount descending",
			args:    []string{"--sort", "amount", "--desc"},
			want:    []string{"Rent", "Fuel", "Food"},
			summary: "3 expenses",
		},
		{
			name:    "category descending",
			args:    []string{"--sort", "category", "--desc"},
			want:    []string{"Rent", "Fuel", "Food"},
			summary: "3 expenses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, url, "", append([]string{"list"}, tt.args...)...)
			require.NoError(t, err)

			last := -1
			for _, w := range tt.want {
				idx := strings.Index(out, w)
				require.GreaterOrEqual(t, idx, 0, "missing %q in %q", w, out)
				assert.Greater(t, idx, last, "%q out of order", w)
				last = idx
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
			assert.Contains(t, out, tt.summary)
		})
	}
}

func TestListEmptyStates(t *testing.T) {
	url := newTestService(t)

	out, err := execute(t, url, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, controller.MsgNoExpenses)

	_, err = execute(t, url, "", "add", "Food", "1")
	require.NoError(t, err)

	out, err = execute(t, url, "", "list", "--filter", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, controller.MsgNoneMatching)
}

func TestListInvalidFlags(t *testing.T) {
	url := newTestService(t)

	_, err := execute(t, url, "", "list", "--sort", "date")
	require.Error(t, err)

	_, err = execute(t, url, "", "list", "--match", "fuzzy")
	require.Error(t, err)
}

func TestListServiceDown(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	_, err := execute(t, url, "", "list")
	require.Error(t, err)
	assert.Equal(t, controller.MsgLoadFailed, err.Error())
}

func TestAddErrors(t *testing.T) {
	url := newTestService(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "blank category", args: []string{"  ", "10"}, wantErr: controller.MsgRequiredFields},
		{name: "blank amount", args: []string{"Food", ""}, wantErr: controller.MsgRequiredFields},
		{name: "server rejects amount", args: []string{"Food", "abc"}, wantErr: server.MsgInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, url, "", append([]string{"add"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}

	out, err := execute(t, url, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, controller.MsgNoExpenses)
}

func TestDeleteCommand(t *testing.T) {
	url := newTestService(t)
	_, err := execute(t, url, "", "add", "Food", "12.50")
	require.NoError(t, err)

	t.Run("declined", func(t *testing.T) {
		out, err := execute(t, url, "n\n", "delete", "1")
		require.NoError(t, err)
		assert.Contains(t, out, controller.DeletePrompt)
		assert.Contains(t, out, "Cancelled")

		out, err = execute(t, url, "", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Food")
	})

	t.Run("no answer declines", func(t *testing.T) {
		out, err := execute(t, url, "", "delete", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Cancelled")
	})

	t.Run("confirmed", func(t *testing.T) {
		out, err := execute(t, url, "yes\n", "delete", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Expense 1 deleted")

		out, err = execute(t, url, "", "list")
		require.NoError(t, err)
		assert.Contains(t, out, controller.MsgNoExpenses)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := execute(t, url, "", "delete", "1", "--force")
		require.Error(t, err)
		assert.Equal(t, server.MsgNotFound, err.Error())
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := execute(t, url, "", "delete", "abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"abc" is not a valid expense id`)
	})
}

func TestImportOFX(t *testing.T) {
	url := newTestService(t)
	statement := filepath.Join("testdata", "checking.ofx")

	out, err := execute(t, url, "", "import-ofx", "--dry-run", statement)
	require.NoError(t, err)
	assert.Contains(t, out, "3 expenses would be imported")
	assert.Contains(t, out, "$125.00")

	// The same statement twice imports each line once.
	out, err = execute(t, url, "", "import-ofx", statement, statement)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 expenses")

	out, err = execute(t, url, "", "list", "--sort", "amount", "--desc")
	require.NoError(t, err)
	assert.Contains(t, out, "3 expenses")
	assert.Contains(t, out, "$500.00")
	assert.NotContains(t, out, "$1500.00")
}

func TestImportDrafts_SkipsInvalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ts := httptest.NewServer(server.New(db.Storage, slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(ts.Close)

	client, err := store.NewClient(ts.URL)
	require.NoError(t, err)
	ctrl := controller.New(client)

	drafts := []model.NewExpense{
		{Category: "Groceries", Amount: "42.10"},
		{Category: "  ", Amount: "5"},
		{Category: "Refund", Amount: "-3"},
		{Category: "Fuel", Amount: "40"},
	}

	added, failed := importDrafts(context.Background(), ctrl, drafts, nil)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, failed)

	expenses := db.MustList()
	require.Len(t, expenses, 2)
	assert.Equal(t, "Fuel", expenses[0].Category)
	assert.Equal(t, "Groceries", expenses[1].Category)
}

func TestImportOFX_NoFiles(t *testing.T) {
	_, err := execute(t, "http://localhost:5000", "", "import-ofx", filepath.Join(t.TempDir(), "*.qfx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files found")
}

func TestTUILogger(t *testing.T) {
	logger, closeLog, err := tuiLogger("")
	require.NoError(t, err)
	logger.Info("dropped")
	closeLog()

	path := filepath.Join(t.TempDir(), "logs", "tui.log")
	logger, closeLog, err = tuiLogger(path)
	require.NoError(t, err)
	logger.Info("kept", "key", "value")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept")
}

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{arg: "1", want: 1},
		{arg: "42", want: 42},
		{arg: "0", wantErr: true},
		{arg: "-3", wantErr: true},
		{arg: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			id, err := parseID(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
