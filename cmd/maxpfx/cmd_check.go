package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxpfx-net/maxpfx/pkg/cli"
	"github.com/maxpfx-net/maxpfx/pkg/junos"
	"github.com/maxpfx-net/maxpfx/pkg/limit"
	"github.com/maxpfx-net/maxpfx/pkg/peeringdb"
	"github.com/maxpfx-net/maxpfx/pkg/util"
)

var (
	checkAll      bool
	writeCommands bool
	commandDir    string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Reconcile configured prefix limits against the registry",
	Long: `Compare each peer's configured maximum-prefix limit with its declared
route count in PeeringDB plus headroom, and report:

  RECONFIGURE - the registry implies a higher limit than configured
  EXCEPTION   - the configured limit is deliberately higher (stale
                registry entry, raised by hand); no command is generated
  (in sync)   - suppressed unless --all

Peers without a configured prefix limit are ignored; peers the registry
does not know are listed separately.

Examples:
  maxpfx check -r edge1
  maxpfx check -r edge1 --all
  maxpfx check -r edge1 --write-commands --command-dir /var/spool/maxpfx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		router, err := requireRouter()
		if err != nil {
			return err
		}
		defer router.Close()

		peers, err := router.ConfiguredPeers(ctx)
		if err != nil {
			return err
		}
		if len(peers) == 0 {
			fmt.Println("No peers with prefix limits configured.")
			return nil
		}
		util.WithRouter(router.Name).Debugf("found %d configured peer families", len(peers))

		src, closeSrc := registrySource()
		defer closeSrc()
		fetched := peeringdb.Fetch(ctx, src, uniqueASNs(peers), peeringdb.DefaultWorkers)

		records, err := buildRecords(peers, fetched)
		if err != nil {
			return err
		}

		results, skips, err := limit.Reconcile(records, inv.Model())
		if err != nil {
			return err
		}
		report := limit.Assemble(results, skips)

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(struct {
				Router  string         `json:"router"`
				Results []limit.Result `json:"results"`
				Report  *limit.Report  `json:"report"`
			}{router.Name, results, report})
		}

		printCheckResults(router.Name, results, report)

		if writeCommands {
			dir := commandDir
			if dir == "" {
				dir = userSettings.GetCommandDir()
			}
			written, err := junos.WriteCommandFiles(dir, report.Statements())
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Printf("Commands written to %s\n", path)
			}
			if len(written) == 0 {
				fmt.Println("No changes needed; no command files written.")
			}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "Show in-sync peers too")
	checkCmd.Flags().BoolVar(&writeCommands, "write-commands", false, "Write per-family set command files")
	checkCmd.Flags().StringVar(&commandDir, "command-dir", "", "Directory for command files (default from settings)")
}

// uniqueASNs returns each ASN once, preserving first-seen order.
func uniqueASNs(peers []junos.ConfiguredPeer) []uint32 {
	seen := make(map[uint32]bool)
	var asns []uint32
	for _, p := range peers {
		if !seen[p.ASN] {
			seen[p.ASN] = true
			asns = append(asns, p.ASN)
		}
	}
	return asns
}

// buildRecords joins parsed router config with fetched registry counts.
// A peer the registry doesn't know gets a nil registry (→ skipped bucket);
// any other lookup failure aborts the run, since partial registry data
// would make the report silently incomplete.
func buildRecords(peers []junos.ConfiguredPeer, fetched *peeringdb.FetchResult) ([]limit.PeerRecord, error) {
	records := make([]limit.PeerRecord, 0, len(peers))
	for _, p := range peers {
		var registry *limit.RegistryCount
		if counts, ok := fetched.Counts[p.ASN]; ok {
			declared := counts.Prefixes4
			if p.Family == limit.FamilyInet6 {
				declared = counts.Prefixes6
			}
			registry = &limit.RegistryCount{DeclaredCount: declared}
		} else if err := fetched.Errors[p.ASN]; err != nil && !errors.Is(err, util.ErrASNNotFound) {
			return nil, err
		}

		rec, err := limit.NewPeerRecord(
			limit.PeerIdentity{ASN: p.ASN, Group: p.Group},
			p.Family,
			limit.CurrentLimit{Maximum: p.Maximum, TeardownPercent: p.TeardownPercent},
			registry,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func printCheckResults(routerName string, results []limit.Result, report *limit.Report) {
	fmt.Printf("Prefix-limit check for %s\n", bold(routerName))

	for _, family := range []limit.Family{limit.FamilyInet, limit.FamilyInet6} {
		fmt.Printf("\n%s results:\n", family)
		t := cli.NewTable("ASN", "GROUP", "CURRENT", "DECLARED", "MULTIPLIER", "NEW MAX", "STATUS").WithPrefix("  ")
		rows := 0
		for _, r := range results {
			if r.Family != family {
				continue
			}
			if r.Classification == limit.ClassOK && !checkAll {
				continue
			}
			t.Row(
				strconv.FormatUint(uint64(r.Identity.ASN), 10),
				r.Identity.Group,
				strconv.Itoa(r.Current.Maximum),
				strconv.Itoa(r.DeclaredCount),
				fmt.Sprintf("%.1f", r.Derived.Multiplier),
				strconv.Itoa(r.Derived.TargetMaximum),
				statusLabel(r.Classification),
			)
			rows++
		}
		if rows == 0 {
			fmt.Println("  (nothing to report)")
			continue
		}
		t.Flush()
	}

	if len(report.Exceptions) > 0 {
		fmt.Println("\nThe following peers are configured above their registry-derived limit.")
		fmt.Println("Their registry entries are likely stale; limits were raised by hand and are left alone.")
		t := cli.NewTable("ASN", "GROUP", "FAMILY", "CONFIGURED", "DERIVED").WithPrefix("  ")
		for _, r := range report.Exceptions {
			t.Row(
				strconv.FormatUint(uint64(r.Identity.ASN), 10),
				r.Identity.Group,
				string(r.Family),
				strconv.Itoa(r.Current.Maximum),
				strconv.Itoa(r.Derived.TargetMaximum),
			)
		}
		t.Flush()
	}

	if len(report.Skipped) > 0 {
		fmt.Println("\nSkipped (no usable registry data):")
		for _, s := range report.Skipped {
			fmt.Printf("  %s %s — %s\n", s.Identity, s.Family, s.Reason)
		}
	}
}

func statusLabel(c limit.Classification) string {
	switch c {
	case limit.ClassUpdate:
		return yellow("MISMATCH - RECONFIGURE")
	case limit.ClassException:
		return red("MISMATCH - EXCEPTION")
	default:
		return green("MATCH")
	}
}
