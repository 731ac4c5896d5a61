package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/darianmavgo/megasena/config"
	"github.com/darianmavgo/megasena/draw"
	"github.com/darianmavgo/megasena/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const draws = "Concurso,Data,Bola1,Bola2,Bola3,Bola4,Bola5,Bola6,Ganhadores\n" +
	"1,01/01/2020,6,2,3,4,5,1,0\n" +
	"2,02/01/2020,1,1,2,3,4,5,0\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runLogged(t, args...)
	return stdout, err
}

// runLogged also returns what the command logged.
func runLogged(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "draws.csv")
	require.NoError(t, os.WriteFile(src, []byte(draws), 0644))
	out := filepath.Join(dir, "out")

	stdout, err := run(t, "export", src, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "accepted")
	assert.Contains(t, stdout, "duplicate numbers")

	b, err := os.ReadFile(filepath.Join(out, "mega-sena-dados.csv"))
	require.NoError(t, err)
	assert.Equal(t, "contestNumber\tdate\tnumbers\n1\t01/01/2020\t1 2 3 4 5 6\n", string(b))
}

func TestImportCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "draws.csv")
	require.NoError(t, os.WriteFile(src, []byte(draws), 0644))

	cfgPath := filepath.Join(dir, "megasena.hcl")
	cfg := config.DefaultConfig()
	cfg.CreateTable = true
	require.NoError(t, config.Export(cfgPath, cfg))

	t.Setenv(config.EnvDatabaseURL, "sqlite://"+filepath.Join(dir, "draws.db"))
	stdout, err := run(t, "--config", cfgPath, "import", src)
	require.NoError(t, err)
	assert.Regexp(t, `accepted\s+1`, stdout)
	assert.Regexp(t, `skipped\s+1`, stdout)
}

func TestImportCommand_MissingDatabaseURL(t *testing.T) {
	t.Setenv(config.EnvDatabaseURL, "")
	_, err := run(t, "import", "whatever.xlsx")

	var cerr *config.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, config.ErrMissing)
}

func TestConfigExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "megasena.yaml")
	_, err := run(t, "config", "export", path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestInvalidLogFormat(t *testing.T) {
	_, err := run(t, "--log-format", "xml", "config", "export", filepath.Join(t.TempDir(), "c.hcl"))
	var cerr *config.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestImportCommand_EveryLogLineHasRunID(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "draws.csv")
	require.NoError(t, os.WriteFile(src, []byte(draws), 0644))

	cfgPath := filepath.Join(dir, "megasena.hcl")
	cfg := config.DefaultConfig()
	cfg.CreateTable = true
	require.NoError(t, config.Export(cfgPath, cfg))

	t.Setenv(config.EnvDatabaseURL, "sqlite://"+filepath.Join(dir, "draws.db"))
	_, logs, err := runLogged(t, "--config", cfgPath, "--log-format", "json", "-v", "import", src)
	require.NoError(t, err)

	var runIDs []string
	messages := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(logs), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		id, _ := entry["run_id"].(string)
		require.NotEmpty(t, id, line)
		runIDs = append(runIDs, id)
		messages[entry["msg"].(string)] = true
	}

	assert.True(t, messages["Connected"])
	for _, id := range runIDs {
		assert.Equal(t, runIDs[0], id)
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("stdout closed") }

func TestReport(t *testing.T) {
	assert.NoError(t, report(brokenWriter{}, nil))
	assert.NoError(t, report(brokenWriter{}, &pipeline.Result{}))

	res := &pipeline.Result{Source: "draws.csv", Summary: draw.Summary{Accepted: 1}}
	assert.ErrorContains(t, report(brokenWriter{}, res), "stdout closed")

	var b bytes.Buffer
	require.NoError(t, report(&b, res))
	assert.Regexp(t, `accepted\s+1`, b.String())
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "draws.csv")
	require.NoError(t, os.WriteFile(src, []byte(draws), 0644))
	out := filepath.Join(dir, "analise")

	stdout, err := run(t, "stats", src, "-o", out, "--min-pairs", "1")
	require.NoError(t, err)
	assert.Regexp(t, `accepted\s+1`, stdout)
	assert.Regexp(t, `(?m)^sum\s+21\.0 ± 0\.0$`, stdout)

	for _, name := range []string{"frequencia-numeros.csv", "analise-gaps.csv", "numeros-quentes-frios.csv", "duplas-frequentes.csv", "trios-frequentes.csv"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	b, err := os.ReadFile(filepath.Join(out, "duplas-frequentes.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "Dupla,Frequência\n01 - 02,1\n"), string(b))
}
