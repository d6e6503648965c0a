package limit

import (
	"fmt"

	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// Family is a BGP address family.
type Family string

const (
	FamilyInet  Family = "inet"
	FamilyInet6 Family = "inet6"
)

// PeerIdentity identifies a BGP peer within one address family. Group is
// the router configuration group the peer lives in, needed to scope
// rendered statements.
type PeerIdentity struct {
	ASN   uint32 `json:"asn"`
	Group string `json:"group"`
}

func (id PeerIdentity) String() string {
	if id.Group == "" {
		return fmt.Sprintf("AS%d", id.ASN)
	}
	return fmt.Sprintf("AS%d (%s)", id.ASN, id.Group)
}

// CurrentLimit is the prefix limit currently configured on the router.
type CurrentLimit struct {
	Maximum         int `json:"maximum"`
	TeardownPercent int `json:"teardown_percent"`
}

// RegistryCount is a peer's publicly declared route count for one family.
type RegistryCount struct {
	DeclaredCount int `json:"declared_count"`
}

// PeerRecord joins one peer's current router configuration with its
// registry lookup result. Registry nil means the peer was not found in
// the registry. Records only exist for peers that already have a limit
// configured — the engine never fabricates one.
type PeerRecord struct {
	Identity PeerIdentity   `json:"identity"`
	Family   Family         `json:"family"`
	Current  CurrentLimit   `json:"current"`
	Registry *RegistryCount `json:"registry,omitempty"`
}

// NewPeerRecord constructs a validated record. Registry may be nil.
func NewPeerRecord(identity PeerIdentity, family Family, current CurrentLimit, registry *RegistryCount) (PeerRecord, error) {
	r := PeerRecord{
		Identity: identity,
		Family:   family,
		Current:  current,
		Registry: registry,
	}
	if err := r.validate(); err != nil {
		return PeerRecord{}, err
	}
	return r, nil
}

func (r PeerRecord) validate() error {
	if r.Family != FamilyInet && r.Family != FamilyInet6 {
		return util.NewInputError(r.Identity.ASN, string(r.Family), "family", "unknown address family")
	}
	if r.Current.Maximum < 0 {
		return util.NewInputError(r.Identity.ASN, string(r.Family), "maximum",
			fmt.Sprintf("negative value %d", r.Current.Maximum))
	}
	if r.Current.TeardownPercent < 1 || r.Current.TeardownPercent > 100 {
		return util.NewInputError(r.Identity.ASN, string(r.Family), "teardown",
			fmt.Sprintf("value %d outside [1,100]", r.Current.TeardownPercent))
	}
	if r.Registry != nil && r.Registry.DeclaredCount < 0 {
		return util.NewInputError(r.Identity.ASN, string(r.Family), "declared count",
			fmt.Sprintf("negative value %d", r.Registry.DeclaredCount))
	}
	return nil
}
