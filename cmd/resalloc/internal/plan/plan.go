// Package plan reads allocation plans: a root resource holder seeded with resources and a
// tree of children that are sub-allocated from their parents.
package plan

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rpkitools/resalloc/resutils"
	"github.com/rpkitools/resalloc/resutils/alloc"
	"github.com/rpkitools/resalloc/resutils/interval"
	"github.com/rpkitools/resalloc/respool"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

const inheritKeyword = "inherit"

// Plan is the top level document of a plan file
//
//	root:
//	  name: iana
//	  ipv4: 10.0.0.0/8
//	  as: 1-16,40,60-156
//	children:
//	  - name: rir
//	    ipv4: ["/16", "r:5"]
//	    ipv6: inherit
//	    children: ...
type Plan struct {
	Root     Root    `yaml:"root"`
	Children []Child `yaml:"children"`
}

// Root seeds the root pool. Each kind holds a comma-separated resource list.
type Root struct {
	Name string `yaml:"name"`
	IPv4 string `yaml:"ipv4"`
	IPv6 string `yaml:"ipv6"`
	AS   string `yaml:"as"`
}

// Child is sub-allocated from the pool it is nested under
type Child struct {
	Name     string       `yaml:"name"`
	IPv4     KindRequests `yaml:"ipv4"`
	IPv6     KindRequests `yaml:"ipv6"`
	AS       KindRequests `yaml:"as"`
	Children []Child      `yaml:"children"`
}

// KindRequests is either the keyword "inherit", a single request, or a list of requests
// such as "/24", "p:256" or "r:5"
type KindRequests struct {
	Inherit  bool
	Requests []string
	present  bool
}

func (k *KindRequests) UnmarshalYAML(value *yaml.Node) error {
	if value.ShortTag() == "!!null" {
		return nil
	}
	k.present = true

	switch value.Kind {
	case yaml.ScalarNode:
		if strings.EqualFold(strings.TrimSpace(value.Value), inheritKeyword) {
			k.Inherit = true
			return nil
		}
		k.Requests = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		return value.Decode(&k.Requests)
	default:
		return errors.Newf("line %d: resource requests must be %q, a request or a list of requests", value.Line, inheritKeyword)
	}
}

// Load reads a plan document from r
func Load(r io.Reader) (*Plan, error) {
	var plan Plan
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	err := decoder.Decode(&plan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode plan")
	}

	if plan.Root.Name == "" {
		return nil, errors.New("the plan root must have a name")
	}
	return &plan, nil
}

func (r Root) resources() map[interval.Kind]string {
	return map[interval.Kind]string{
		interval.KindIPv4: r.IPv4,
		interval.KindIPv6: r.IPv6,
		interval.KindAS:   r.AS,
	}
}

func (c Child) requests() map[interval.Kind]KindRequests {
	return map[interval.Kind]KindRequests{
		interval.KindIPv4: c.IPv4,
		interval.KindIPv6: c.IPv6,
		interval.KindAS:   c.AS,
	}
}

// childRequests converts the child's plan entries into respool.ChildRequests. Kinds the plan
// leaves out are left out of the result.
func (c Child) childRequests() (respool.ChildRequests, error) {
	result := respool.ChildRequests{}
	for kind, kindRequests := range c.requests() {
		if !kindRequests.present {
			continue
		}

		requests, err := alloc.ParseRequests(kind, kindRequests.Requests)
		if err != nil {
			return nil, errors.Wrapf(err, "child %s has invalid %s requests", c.Name, kind)
		}
		result[kind] = respool.KindRequests{Inherit: kindRequests.Inherit, Requests: requests}
	}
	return result, nil
}

// Execute seeds a root pool and sub-allocates every child from its parent, depth first in
// plan order. The pools are returned in the same order, root first.
func (p *Plan) Execute(logger *slog.Logger, options respool.CreateOptions) ([]*respool.Pool, error) {
	root := respool.New(logger, p.Root.Name, options)
	resources := p.Root.resources()
	for _, kind := range interval.Kinds {
		text := resources[kind]
		if strings.TrimSpace(text) == "" {
			continue
		}

		err := root.SeedText(kind, text)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to seed %s resources of %s", kind, p.Root.Name)
		}
	}

	pools := []*respool.Pool{root}
	var err error
	for _, child := range p.Children {
		pools, err = executeChild(root, child, pools)
		if err != nil {
			return nil, err
		}
	}

	return pools, nil
}

func executeChild(parent *respool.Pool, child Child, pools []*respool.Pool) ([]*respool.Pool, error) {
	if child.Name == "" {
		return nil, errors.Wrapf(resutils.ErrInvalidRequest, "a child of %s has no name", parent.Name())
	}

	requests, err := child.childRequests()
	if err != nil {
		return nil, err
	}

	pool, err := parent.SubAllocate(child.Name, requests)
	if err != nil {
		return nil, err
	}
	pools = append(pools, pool)

	for _, grandchild := range child.Children {
		pools, err = executeChild(pool, grandchild, pools)
		if err != nil {
			return nil, err
		}
	}

	return pools, nil
}
