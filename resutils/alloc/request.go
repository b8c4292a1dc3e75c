package alloc

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rpkitools/resalloc/resutils"
	"github.com/rpkitools/resalloc/resutils/interval"
)

// RequestType selects the search procedure used to satisfy a Request
type RequestType uint32

const (
	// RequestPrefix asks for a CIDR-alignable block: the amount must be a power of two and the
	// allocated block starts on a multiple of the amount
	RequestPrefix RequestType = iota + 1
	// RequestRange asks for a contiguous block of arbitrary size with no alignment requirement
	RequestRange
)

var requestTypeMapping = map[RequestType]string{
	RequestPrefix: "prefix",
	RequestRange:  "range",
}

func (t RequestType) String() string {
	name, ok := requestTypeMapping[t]
	if !ok {
		return fmt.Sprintf("RequestType(%d)", uint32(t))
	}
	return name
}

// Request is a single entry of an allocation batch
type Request struct {
	Type   RequestType
	Amount *big.Int
}

// Prefix builds a prefix request for amount resource numbers
func Prefix(amount int64) Request {
	return Request{Type: RequestPrefix, Amount: big.NewInt(amount)}
}

// Range builds a range request for amount resource numbers
func Range(amount int64) Request {
	return Request{Type: RequestRange, Amount: big.NewInt(amount)}
}

// PrefixOfLength builds a prefix request from a CIDR prefix length, e.g. a /24 for KindIPv4
// is a prefix request for 256 addresses
func PrefixOfLength(kind interval.Kind, length int) (Request, error) {
	if length < 0 || length > kind.Bits() {
		return Request{}, errors.Wrapf(resutils.ErrInvalidRequest, "prefix length /%d is out of range for %s", length, kind)
	}
	return Request{Type: RequestPrefix, Amount: resutils.Pow2(kind.Bits() - length)}, nil
}

// Validate returns resutils.ErrInvalidRequest if the request could never be satisfied: an
// unknown type, a non-positive amount, or a prefix amount that is not a power of two
func (r Request) Validate() error {
	if _, ok := requestTypeMapping[r.Type]; !ok {
		return errors.Wrapf(resutils.ErrInvalidRequest, "invalid request type %s", r.Type)
	}
	if r.Amount == nil || r.Amount.Sign() <= 0 {
		return errors.Wrapf(resutils.ErrInvalidRequest, "%s request amount must be positive", r.Type)
	}
	if r.Type == RequestPrefix && !resutils.IsPow2(r.Amount) {
		return errors.Wrapf(resutils.ErrInvalidRequest, "illegal prefix size %s", r.Amount)
	}
	return nil
}

func (r Request) String() string {
	amount := "<nil>"
	if r.Amount != nil {
		amount = r.Amount.String()
	}
	return r.Type.String() + ":" + amount
}

// ParseRequest reads a request in one of the forms "prefix:256", "p:256", "range:5", "r:5", or
// the prefix length shorthand "/24", whose size depends on kind
func ParseRequest(kind interval.Kind, text string) (Request, error) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		length, err := strconv.Atoi(text[1:])
		if err != nil {
			return Request{}, errors.Wrapf(resutils.ErrInvalidRequest, "invalid prefix length %q", text)
		}
		return PrefixOfLength(kind, length)
	}

	typeName, amountText, found := strings.Cut(text, ":")
	if !found {
		return Request{}, errors.Wrapf(resutils.ErrInvalidRequest, "request %q must be written as type:amount", text)
	}

	var request Request
	switch strings.ToLower(strings.TrimSpace(typeName)) {
	case "p", "prefix":
		request.Type = RequestPrefix
	case "r", "range":
		request.Type = RequestRange
	default:
		return Request{}, errors.Wrapf(resutils.ErrInvalidRequest, "invalid request type %q", typeName)
	}

	amount, ok := new(big.Int).SetString(strings.TrimSpace(amountText), 10)
	if !ok {
		return Request{}, errors.Wrapf(resutils.ErrInvalidRequest, "invalid request amount %q", amountText)
	}
	request.Amount = amount

	err := request.Validate()
	if err != nil {
		return Request{}, err
	}
	return request, nil
}

// ParseRequests calls ParseRequest for each entry of texts
func ParseRequests(kind interval.Kind, texts []string) ([]Request, error) {
	requests := make([]Request, 0, len(texts))
	for _, text := range texts {
		request, err := ParseRequest(kind, text)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}
