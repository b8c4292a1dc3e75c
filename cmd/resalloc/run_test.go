package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const runPlan = `
root:
  name: iana
  ipv4: 10.0.0.0/16
  as: 64496-64511
children:
  - name: rir
    ipv4: /24
    as: r:3
`

func executeRoot(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writePlan(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestRunPrintsConfigLines(t *testing.T) {
	out, err := executeRoot(t, "run", "--plan", writePlan(t, runPlan))
	require.NoError(t, err)
	require.Equal(t, "# iana\n"+
		"ipv4=10.0.0.0/16\n"+
		"ipv6=\n"+
		"as=64496-64511\n"+
		"# rir\n"+
		"ipv4=10.0.0.0/24\n"+
		"ipv6=\n"+
		"as=64496-64498\n", out)
}

func TestRunJSON(t *testing.T) {
	out, err := executeRoot(t, "run", "--plan", writePlan(t, runPlan), "--json", "--detailed")
	require.NoError(t, err)

	var decoded []struct {
		Name   string
		Parent string
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "rir", decoded[1].Name)
	require.Equal(t, "iana", decoded[1].Parent)
}

func TestRunFlags(t *testing.T) {
	_, err := executeRoot(t, "run")
	require.Error(t, err)

	_, err = executeRoot(t, "run", "--plan", writePlan(t, runPlan), "--log-level", "loud")
	require.Error(t, err)

	out, err := executeRoot(t, "run", "--plan", writePlan(t, runPlan), "--log-level", "debug")
	require.NoError(t, err)
	require.Contains(t, out, "Pool::SubAllocate")

	_, err = executeRoot(t, "run", "--plan", writePlan(t, runPlan), "--keep-partial")
	require.ErrorContains(t, err, "unknown flag")

	_, err = executeRoot(t, "run", "--plan", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRunFailedChildLeavesNoPartialOutput(t *testing.T) {
	out, err := executeRoot(t, "run", "--plan", writePlan(t, `
root:
  name: iana
  as: 1-10
children:
  - name: greedy
    as: [r:3, r:20]
`))
	require.ErrorContains(t, err, "allocation exhausted")
	require.NotContains(t, out, "# greedy")
}

func TestVersion(t *testing.T) {
	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	require.Equal(t, version+"\n", out)
}
