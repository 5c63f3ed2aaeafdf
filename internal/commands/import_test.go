package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementFixture(fitIDs ...string) string {
	var b strings.Builder
	b.WriteString("<OFX>\n<BANKTRANLIST>\n")
	for _, id := range fitIDs {
		fmt.Fprintf(&b, "<STMTTRN>\n<TRNTYPE>DEBIT\n<DTPOSTED>20210715120000.000[0:GMT]\n<TRNAMT>-12.50\n<FITID>%s\n<NAME>CARD PURCHASE %s\n</STMTTRN>\n", id, id)
	}
	b.WriteString("</BANKTRANLIST>\n<LEDGERBAL>\n<BALAMT>250.10\n<DTASOF>20210723144232.000[0:GMT]\n</LEDGERBAL>\n</OFX>\n")
	return b.String()
}

// setupWallet initializes a wallet directory with one account and
// returns the config path.
func setupWallet(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, runInit(dir))
	cfgPath := filepath.Join(dir, "wallet.yaml")

	var out bytes.Buffer
	require.NoError(t, runAccountRegister(cfgPath, "checking", 0, &out))
	assert.Contains(t, out.String(), "checking")
	return cfgPath
}

func TestRunImport(t *testing.T) {
	cfgPath := setupWallet(t)
	dir := filepath.Dir(cfgPath)

	file := filepath.Join(dir, "july.qfx")
	require.NoError(t, os.WriteFile(file, []byte(statementFixture("FIT-1", "FIT-2")), 0o644))

	var out bytes.Buffer
	err := runImport(importOptions{
		ConfigPath: cfgPath,
		Format:     "qfx",
		File:       file,
		AccountRef: "checking",
		Yes:        true,
		In:         strings.NewReader(""),
		Out:        &out,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "number of transactions: 2")
	assert.Contains(t, out.String(), "ledger balance: 250.10 as of 2021-07-23 14:42:32")
	assert.Contains(t, out.String(), "2 transactions imported.")
}

func TestRunImport_ReimportReportsDuplicates(t *testing.T) {
	cfgPath := setupWallet(t)
	dir := filepath.Dir(cfgPath)

	file := filepath.Join(dir, "july.qfx")
	require.NoError(t, os.WriteFile(file, []byte(statementFixture("FIT-1")), 0o644))

	opts := importOptions{
		ConfigPath: cfgPath,
		Format:     "qfx",
		File:       file,
		AccountRef: "checking",
		Yes:        true,
		In:         strings.NewReader(""),
	}

	var first bytes.Buffer
	opts.Out = &first
	require.NoError(t, runImport(opts))
	assert.Contains(t, first.String(), "1 transactions imported.")

	var second bytes.Buffer
	opts.Out = &second
	require.NoError(t, runImport(opts))
	assert.Contains(t, second.String(), "DUPLICATE: FIT-1")
	assert.Contains(t, second.String(), "0 transactions imported.")
}

func TestRunImport_DeclinedConfirmImportsNothing(t *testing.T) {
	cfgPath := setupWallet(t)
	dir := filepath.Dir(cfgPath)

	file := filepath.Join(dir, "july.qfx")
	require.NoError(t, os.WriteFile(file, []byte(statementFixture("FIT-1")), 0o644))

	opts := importOptions{
		ConfigPath: cfgPath,
		Format:     "qfx",
		File:       file,
		AccountRef: "checking",
		In:         strings.NewReader("n\n"),
	}

	var out bytes.Buffer
	opts.Out = &out
	require.NoError(t, runImport(opts))
	assert.NotContains(t, out.String(), "transactions imported.")

	// Confirming now imports the record: nothing was stored above.
	opts.Yes = true
	opts.In = strings.NewReader("")
	var again bytes.Buffer
	opts.Out = &again
	require.NoError(t, runImport(opts))
	assert.Contains(t, again.String(), "1 transactions imported.")
}

func TestRunImport_UnsupportedFormat(t *testing.T) {
	cfgPath := setupWallet(t)

	err := runImport(importOptions{
		ConfigPath: cfgPath,
		Format:     "csv",
		AccountRef: "checking",
		In:         strings.NewReader(""),
		Out:        &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser for format")
}

func TestRunImport_UnknownAccount(t *testing.T) {
	cfgPath := setupWallet(t)
	dir := filepath.Dir(cfgPath)

	file := filepath.Join(dir, "july.qfx")
	require.NoError(t, os.WriteFile(file, []byte(statementFixture("FIT-1")), 0o644))

	err := runImport(importOptions{
		ConfigPath: cfgPath,
		Format:     "qfx",
		File:       file,
		AccountRef: "ghost",
		In:         strings.NewReader(""),
		Out:        &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account not found")
}

func TestRunImport_Dir(t *testing.T) {
	cfgPath := setupWallet(t)
	dir := filepath.Dir(cfgPath)

	inbox := filepath.Join(dir, "statements")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "july.qfx"), []byte(statementFixture("FIT-1")), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "august.qfx"), []byte(statementFixture("FIT-2")), 0o644))

	var out bytes.Buffer
	err := runImport(importOptions{
		ConfigPath: cfgPath,
		Format:     "qfx",
		AccountRef: "checking",
		Dir:        inbox,
		In:         strings.NewReader(""),
		Out:        &out,
	})
	require.NoError(t, err)

	// Both files imported and moved aside.
	assert.Contains(t, out.String(), "july.qfx")
	assert.Contains(t, out.String(), "august.qfx")
	_, statErr := os.Stat(filepath.Join(inbox, "processed", "july.qfx"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(inbox, "july.qfx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunImport_PromptedFlow(t *testing.T) {
	cfgPath := setupWallet(t)
	dir := filepath.Dir(cfgPath)

	file := filepath.Join(dir, "july.qfx")
	require.NoError(t, os.WriteFile(file, []byte(statementFixture("FIT-1")), 0o644))

	// Answers: format, file path, account, confirmation.
	input := "qfx\n" + file + "\nchecking\ny\n"

	var out bytes.Buffer
	err := runImport(importOptions{
		ConfigPath: cfgPath,
		In:         strings.NewReader(input),
		Out:        &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Which format do you want to use?")
	assert.Contains(t, out.String(), "1 transactions imported.")
}
