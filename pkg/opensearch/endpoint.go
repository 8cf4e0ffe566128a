package opensearch

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Endpoint is the address of one cluster node.
type Endpoint struct {
	Scheme string
	Host   string
	Port   int
}

// ParseEndpoint parses an http(s) URI such as "http://localhost:9200".
// A missing port defaults to the scheme's well-known port.
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %q: %w", ErrInvalidEndpoint, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoint{}, fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidEndpoint, raw)
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("%w: %q: host is required", ErrInvalidEndpoint, raw)
	}

	port := defaultPort(u.Scheme)
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return Endpoint{}, fmt.Errorf("%w: %q: invalid port", ErrInvalidEndpoint, raw)
		}
	}

	return Endpoint{Scheme: u.Scheme, Host: u.Hostname(), Port: port}, nil
}

// parsePublishAddress turns a node's advertised HTTP address into an endpoint.
// Both "ip:port" and "hostname/ip:port" forms are accepted; the latter resolves to ip:port.
func parsePublishAddress(scheme, addr string) (Endpoint, error) {
	if i := strings.LastIndex(addr, "/"); i >= 0 {
		addr = addr[i+1:]
	}
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: publish address %q: %w", ErrInvalidEndpoint, addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil || host == "" || port <= 0 || port > 65535 {
		return Endpoint{}, fmt.Errorf("%w: publish address %q", ErrInvalidEndpoint, addr)
	}
	return Endpoint{Scheme: scheme, Host: host, Port: port}, nil
}

func defaultPort(scheme string) int {
	if scheme == "https" {
		return 443
	}
	return 80
}

// Address returns host:port.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string {
	return e.Scheme + "://" + e.Address()
}

// resolve returns a copy of ref pointed at this endpoint, keeping path and query.
func (e Endpoint) resolve(ref *url.URL) *url.URL {
	u := *ref
	u.Scheme = e.Scheme
	u.Host = e.Address()
	u.User = nil
	return &u
}

// EndpointSet is an immutable, ordered list of endpoints.
// It is never modified after construction; replacing the topology means
// building a new set.
type EndpointSet struct {
	endpoints []Endpoint
}

// NewEndpointSet copies endpoints into a new set.
func NewEndpointSet(endpoints ...Endpoint) EndpointSet {
	return EndpointSet{endpoints: slices.Clone(endpoints)}
}

// ParseEndpointSet parses every address with ParseEndpoint.
func ParseEndpointSet(addresses []string) (EndpointSet, error) {
	endpoints := make([]Endpoint, 0, len(addresses))
	for _, addr := range addresses {
		ep, err := ParseEndpoint(addr)
		if err != nil {
			return EndpointSet{}, err
		}
		endpoints = append(endpoints, ep)
	}
	return EndpointSet{endpoints: endpoints}, nil
}

func (s EndpointSet) Len() int { return len(s.endpoints) }

// At returns the i-th endpoint. It panics when i is out of range.
func (s EndpointSet) At(i int) Endpoint { return s.endpoints[i] }

// All returns a copy of the endpoints in order.
func (s EndpointSet) All() []Endpoint { return slices.Clone(s.endpoints) }

func (s EndpointSet) Contains(ep Endpoint) bool {
	return slices.Contains(s.endpoints, ep)
}

// Equal reports whether both sets hold the same endpoints, ignoring order.
func (s EndpointSet) Equal(other EndpointSet) bool {
	if len(s.endpoints) != len(other.endpoints) {
		return false
	}
	counts := make(map[Endpoint]int, len(s.endpoints))
	for _, ep := range s.endpoints {
		counts[ep]++
	}
	for _, ep := range other.endpoints {
		counts[ep]--
		if counts[ep] < 0 {
			return false
		}
	}
	return true
}

func (s EndpointSet) String() string {
	parts := make([]string, len(s.endpoints))
	for i, ep := range s.endpoints {
		parts[i] = ep.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// sorted returns a copy ordered by address, used to keep discovery results deterministic.
func (s EndpointSet) sorted() EndpointSet {
	out := slices.Clone(s.endpoints)
	slices.SortFunc(out, func(a, b Endpoint) int {
		return strings.Compare(a.String(), b.String())
	})
	return EndpointSet{endpoints: out}
}
