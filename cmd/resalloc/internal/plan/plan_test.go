package plan_test

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rpkitools/resalloc/cmd/resalloc/internal/plan"
	"github.com/rpkitools/resalloc/resutils"
	"github.com/rpkitools/resalloc/respool"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const testPlan = `
root:
  name: iana
  ipv4: 10.0.0.0/16
  ipv6: 2001:db8::/32
  as: 64496-64511
children:
  - name: rir
    ipv4: ["/20", "r:5"]
    ipv6: "/48"
    as: [r:4]
    children:
      - name: isp
        ipv4: /24
        ipv6: inherit
  - name: other
    as: r:2
`

func TestLoad(t *testing.T) {
	loaded, err := plan.Load(strings.NewReader(testPlan))
	require.NoError(t, err)

	require.Equal(t, "iana", loaded.Root.Name)
	require.Equal(t, "10.0.0.0/16", loaded.Root.IPv4)
	require.Len(t, loaded.Children, 2)

	rir := loaded.Children[0]
	require.Equal(t, []string{"/20", "r:5"}, rir.IPv4.Requests)
	require.Equal(t, []string{"/48"}, rir.IPv6.Requests)
	require.Equal(t, []string{"r:4"}, rir.AS.Requests)
	require.Len(t, rir.Children, 1)
	require.True(t, rir.Children[0].IPv6.Inherit)
	require.False(t, loaded.Children[1].IPv4.Inherit)
}

func TestLoadErrors(t *testing.T) {
	_, err := plan.Load(strings.NewReader("children: []\n"))
	require.Error(t, err)

	_, err = plan.Load(strings.NewReader("root:\n  name: x\n  ipv5: 1.2.3.4\n"))
	require.Error(t, err)

	_, err = plan.Load(strings.NewReader("root:\n  name: x\nchildren:\n  - name: y\n    ipv4: {a: b}\n"))
	require.Error(t, err)
}

func TestExecute(t *testing.T) {
	loaded, err := plan.Load(strings.NewReader(testPlan))
	require.NoError(t, err)

	pools, err := loaded.Execute(slog.Default(), respool.CreateOptions{})
	require.NoError(t, err)
	require.Len(t, pools, 4)

	names := make([]string, 0, len(pools))
	for _, pool := range pools {
		require.NoError(t, pool.Validate())
		names = append(names, pool.Name())
	}
	require.Equal(t, []string{"iana", "rir", "isp", "other"}, names)

	require.Equal(t, []string{
		"ipv4=10.0.0.0/20,10.0.16.1-10.0.16.5",
		"ipv6=2001:db8::/48",
		"as=64496-64499",
	}, pools[1].ConfigLines())

	require.Equal(t, []string{
		"ipv4=10.0.0.0/24",
		"ipv6=inherit",
		"as=",
	}, pools[2].ConfigLines())
	require.Same(t, pools[1], pools[2].Parent())

	require.Equal(t, "as=64501-64502", pools[3].ConfigLines()[2])
}

func TestExecuteFailure(t *testing.T) {
	loaded, err := plan.Load(strings.NewReader(`
root:
  name: iana
  as: 1-10
children:
  - name: greedy
    as: r:20
`))
	require.NoError(t, err)

	_, err = loaded.Execute(slog.Default(), respool.CreateOptions{})
	require.True(t, errors.Is(err, resutils.ErrAllocationExhausted))

	loaded.Children[0].Name = ""
	_, err = loaded.Execute(slog.Default(), respool.CreateOptions{})
	require.True(t, errors.Is(err, resutils.ErrInvalidRequest))
}
