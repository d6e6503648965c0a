// Package junos reads BGP prefix-limit configuration from Juniper routers
// and renders the set commands that update it. The JSON wire format is the
// one `show configuration ... | display json` emits: every element is an
// array of objects, leaves carry their value under "data".
package junos

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/maxpfx-net/maxpfx/pkg/limit"
)

// ConfiguredPeer is one (group, family) pair with an explicit prefix
// limit. Groups without a prefix-limit stanza never appear — the tool
// must not invent limits where the operator configured none.
type ConfiguredPeer struct {
	ASN             uint32
	Group           string
	Family          limit.Family
	Maximum         int
	TeardownPercent int
}

type leaf struct {
	Data string `json:"data"`
}

type bgpConfigDoc struct {
	Configuration []struct {
		Protocols []struct {
			BGP []struct {
				Group []bgpGroup `json:"group"`
			} `json:"bgp"`
		} `json:"protocols"`
	} `json:"configuration"`
}

type bgpGroup struct {
	Name   leaf           `json:"name"`
	PeerAS []leaf         `json:"peer-as"`
	Family []familyStanza `json:"family"`
}

type familyStanza struct {
	Inet  []familyOpts `json:"inet"`
	Inet6 []familyOpts `json:"inet6"`
}

type familyOpts struct {
	Unicast []struct {
		PrefixLimit []prefixLimit `json:"prefix-limit"`
	} `json:"unicast"`
}

type prefixLimit struct {
	Maximum  []leaf `json:"maximum"`
	Teardown []struct {
		LimitThreshold []leaf `json:"limit-threshold"`
	} `json:"teardown"`
}

// ParseBGPGroups extracts configured peers from a BGP stanza in Junos
// JSON format. Peers are returned in configuration order, one entry per
// (group, family) with a prefix limit. A missing teardown threshold
// defaults to limit.DefaultTeardownPercent.
func ParseBGPGroups(data []byte) ([]ConfiguredPeer, error) {
	var doc bgpConfigDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing BGP config: %w", err)
	}

	var peers []ConfiguredPeer
	for _, conf := range doc.Configuration {
		for _, proto := range conf.Protocols {
			for _, bgp := range proto.BGP {
				for _, group := range bgp.Group {
					found, err := peersFromGroup(group)
					if err != nil {
						return nil, err
					}
					peers = append(peers, found...)
				}
			}
		}
	}
	return peers, nil
}

func peersFromGroup(group bgpGroup) ([]ConfiguredPeer, error) {
	// No family stanza means no prefix limit configured; skip the group.
	if len(group.Family) == 0 || len(group.PeerAS) == 0 {
		return nil, nil
	}

	asn, err := strconv.ParseUint(group.PeerAS[0].Data, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("group %s: peer-as %q: %w", group.Name.Data, group.PeerAS[0].Data, err)
	}

	var peers []ConfiguredPeer
	for _, fam := range group.Family {
		for _, opts := range fam.Inet {
			peer, ok, err := peerFromFamily(uint32(asn), group.Name.Data, limit.FamilyInet, opts)
			if err != nil {
				return nil, err
			}
			if ok {
				peers = append(peers, peer)
			}
		}
		for _, opts := range fam.Inet6 {
			peer, ok, err := peerFromFamily(uint32(asn), group.Name.Data, limit.FamilyInet6, opts)
			if err != nil {
				return nil, err
			}
			if ok {
				peers = append(peers, peer)
			}
		}
	}
	return peers, nil
}

func peerFromFamily(asn uint32, groupName string, family limit.Family, opts familyOpts) (ConfiguredPeer, bool, error) {
	for _, uni := range opts.Unicast {
		for _, pl := range uni.PrefixLimit {
			if len(pl.Maximum) == 0 {
				continue
			}
			max, err := strconv.Atoi(pl.Maximum[0].Data)
			if err != nil {
				return ConfiguredPeer{}, false, fmt.Errorf("group %s %s: maximum %q: %w", groupName, family, pl.Maximum[0].Data, err)
			}
			teardown := limit.DefaultTeardownPercent
			if len(pl.Teardown) > 0 && len(pl.Teardown[0].LimitThreshold) > 0 {
				teardown, err = strconv.Atoi(pl.Teardown[0].LimitThreshold[0].Data)
				if err != nil {
					return ConfiguredPeer{}, false, fmt.Errorf("group %s %s: teardown %q: %w", groupName, family, pl.Teardown[0].LimitThreshold[0].Data, err)
				}
			}
			return ConfiguredPeer{
				ASN:             asn,
				Group:           groupName,
				Family:          family,
				Maximum:         max,
				TeardownPercent: teardown,
			}, true, nil
		}
	}
	return ConfiguredPeer{}, false, nil
}
