package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "flooring-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "flooring")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/flooring")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func run(t *testing.T, dir string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, append(args, "--dir", dir)...)
	out, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

func newLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, code := run(t, dir, "init", "--sample-data")
	require.Equal(t, 0, code)
	return dir
}

const date = "06/01/2099"

func TestE2E_OrderLifecycle(t *testing.T) {
	dir := newLedger(t)

	_, code := run(t, dir, "add", "--date", date, "--name", "John Doe", "--state", "FL", "--product", "Tile", "--area", "100")
	require.Equal(t, 0, code)
	_, code = run(t, dir, "add", "--date", date, "--name", "Jane Roe", "--state", "TX", "--product", "Wood", "--area", "250")
	require.Equal(t, 0, code)

	_, code = run(t, dir, "edit", "--date", date, "--order", "2", "--area", "300")
	require.Equal(t, 0, code)
	_, code = run(t, dir, "remove", "--date", date, "--order", "1")
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "Orders", "Orders_06012099.txt"))
	require.NoError(t, err)
	// 300 * 5.15 = 1545.00, 300 * 4.75 = 1425.00, 2970.00 * 0.0445 = 132.165
	assert.Equal(t, "2,Jane Roe,TX,0.0445,Wood,300.00,5.15,4.75,1545.00,1425.00,132.17,3102.17\n", string(data))

	_, code = run(t, dir, "export")
	require.Equal(t, 0, code)
	export, err := os.ReadFile(filepath.Join(dir, "Backup", "DataExport.txt"))
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(string(data), "\n")+",06-01-2099\n", string(export))
}

func TestE2E_DisplayJSON(t *testing.T) {
	dir := newLedger(t)
	_, code := run(t, dir, "add", "--date", date, "--name", "John Doe", "--state", "FL", "--product", "Tile", "--area", "100")
	require.Equal(t, 0, code)

	cmd := exec.Command(binaryPath, "display", "--date", date, "--json", "--dir", dir)
	out, err := cmd.Output()
	require.NoError(t, err)

	var orders []map[string]any
	require.NoError(t, json.Unmarshal(out, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "810.90", orders[0]["total"])
}

func TestE2E_UnknownOrderExitsNonZero(t *testing.T) {
	dir := newLedger(t)
	out, code := run(t, dir, "remove", "--date", date, "--order", "42")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not found")
}

func TestE2E_Version(t *testing.T) {
	out, code := run(t, t.TempDir(), "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "flooring")
}
