package junos

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maxpfx-net/maxpfx/pkg/limit"
	"github.com/maxpfx-net/maxpfx/pkg/util"
)

// Output file names, one per address family, matching the cron consumers.
const (
	V4CommandsFile = "v4commands.txt"
	V6CommandsFile = "v6commands.txt"
)

// RenderSetCommands renders Junos set commands for a change payload:
// one command for the new maximum, one for the teardown threshold. The
// teardown option makes the router hard-reset the session with Cease /
// Maximum Number of Prefixes Reached once the limit is hit.
func RenderSetCommands(s limit.Statement) []string {
	prefix := fmt.Sprintf("set protocols bgp group %s family %s unicast prefix-limit",
		s.Identity.Group, s.Family)
	return []string{
		fmt.Sprintf("%s maximum %d", prefix, s.TargetMaximum),
		fmt.Sprintf("%s teardown %d", prefix, s.TeardownPercent),
	}
}

// RenderAll renders commands for every statement, split by family.
func RenderAll(stmts []limit.Statement) (v4, v6 []string) {
	for _, s := range stmts {
		cmds := RenderSetCommands(s)
		switch s.Family {
		case limit.FamilyInet6:
			v6 = append(v6, cmds...)
		default:
			v4 = append(v4, cmds...)
		}
	}
	return v4, v6
}

// WriteCommandFiles writes per-family command files into dir, skipping
// families with no changes. Returns the paths written.
func WriteCommandFiles(dir string, stmts []limit.Statement) ([]string, error) {
	v4, v6 := RenderAll(stmts)

	var written []string
	for _, out := range []struct {
		name string
		cmds []string
	}{
		{V4CommandsFile, v4},
		{V6CommandsFile, v6},
	} {
		if len(out.cmds) == 0 {
			continue
		}
		path := filepath.Join(dir, out.name)
		if err := os.WriteFile(path, []byte(strings.Join(out.cmds, "\n")+"\n"), 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		util.Debugf("wrote %d commands to %s", len(out.cmds), path)
		written = append(written, path)
	}
	return written, nil
}
