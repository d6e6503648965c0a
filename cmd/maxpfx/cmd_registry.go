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
	"github.com/maxpfx-net/maxpfx/pkg/limit"
	"github.com/maxpfx-net/maxpfx/pkg/util"
)

var registryCmd = &cobra.Command{
	Use:   "registry <asn>",
	Short: "Look up a network's declared prefix counts",
	Long: `Query the registry for one ASN and show the declared counts together
with the headroom-derived limits the check command would target.

Examples:
  maxpfx registry 65501`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asn64, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid ASN %q", args[0])
		}
		asn := uint32(asn64)

		ctx := context.Background()
		src, closeSrc := registrySource()
		defer closeSrc()

		counts, err := src.LookupASN(ctx, asn)
		if err != nil {
			if errors.Is(err, util.ErrASNNotFound) {
				return fmt.Errorf("AS%d has no registry entry", asn)
			}
			return err
		}

		model := inv.Model()
		if jsonOutput {
			type derivedJSON struct {
				Declared int                 `json:"declared"`
				Derived  *limit.DerivedLimit `json:"derived,omitempty"`
			}
			out := make(map[string]derivedJSON, 2)
			for family, declared := range map[string]int{
				string(limit.FamilyInet):  counts.Prefixes4,
				string(limit.FamilyInet6): counts.Prefixes6,
			} {
				entry := derivedJSON{Declared: declared}
				if d, err := model.Derive(declared); err == nil {
					entry.Derived = &d
				}
				out[family] = entry
			}
			return json.NewEncoder(os.Stdout).Encode(out)
		}

		fmt.Printf("Registry entry for %s\n\n", bold(fmt.Sprintf("AS%d", asn)))
		t := cli.NewTable("FAMILY", "DECLARED", "MULTIPLIER", "TARGET MAX", "TEARDOWN").WithPrefix("  ")
		for _, row := range []struct {
			family   limit.Family
			declared int
		}{
			{limit.FamilyInet, counts.Prefixes4},
			{limit.FamilyInet6, counts.Prefixes6},
		} {
			derived, err := model.Derive(row.declared)
			if err != nil {
				t.Row(string(row.family), strconv.Itoa(row.declared), "-", "-", "-")
				continue
			}
			t.Row(
				string(row.family),
				strconv.Itoa(row.declared),
				fmt.Sprintf("%.1f", derived.Multiplier),
				strconv.Itoa(derived.TargetMaximum),
				strconv.Itoa(derived.TeardownPercent)+"%",
			)
		}
		t.Flush()
		return nil
	},
}
