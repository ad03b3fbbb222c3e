package commands

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/teranos/vkdoc/display"
	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/logger"
	"github.com/teranos/vkdoc/registry"
)

// InspectCmd shows what the registry knows about one name
var InspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Show a symbol's kind, owners and alias chain",
	Long: `Look name up in every registry table and print what was found: its kind,
the features and extensions that own it, and the alias chain to its definition.

With -vvvv the raw registry entry is dumped as well.

Examples:
  vkdoc inspect VkExtent2D
  vkdoc inspect vkCmdDrawIndirectCountKHR
  vkdoc inspect VkAccessFlagBits --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

// symbolInfo is one table hit for an inspected name
type symbolInfo struct {
	Name      string   `json:"name"`
	Table     string   `json:"table"`
	Kind      string   `json:"kind"`
	Owners    []string `json:"owners,omitempty"`
	Chain     []string `json:"alias_chain,omitempty"`
	Additions int      `json:"additions,omitempty"`

	raw interface{}
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	idx, err := loadIndex(cmd, cfg)
	if err != nil {
		return err
	}

	infos, err := inspectSymbol(idx, args[0])
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), infos)
	}

	v := verbosity(cmd)
	out := cmd.OutOrStdout()
	if logger.ShouldOutput(v, logger.OutputRegistryStat) {
		newOutput(cmd, out).Stats(idx.API(), idx.Stats())
	}
	for _, info := range infos {
		fmt.Fprintf(out, "%s (%s %s)\n", info.Name, info.Table, info.Kind)
		if len(info.Owners) > 0 {
			fmt.Fprintf(out, "  owners: %s\n", strings.Join(info.Owners, ", "))
		}
		if len(info.Chain) > 1 {
			fmt.Fprintf(out, "  alias:  %s\n", strings.Join(info.Chain, " -> "))
		}
		if info.Additions > 0 {
			fmt.Fprintf(out, "  additions: %d\n", info.Additions)
		}
		if logger.ShouldOutput(v, logger.OutputDataDump) {
			spew.Fdump(out, info.raw)
		}
	}
	return nil
}

// inspectSymbol collects every table entry for name
func inspectSymbol(idx *registry.Index, name string) ([]symbolInfo, error) {
	var infos []symbolInfo
	owners := idx.Membership().Owners(name)

	if t, ok := idx.LookupType(name); ok {
		info := symbolInfo{Name: name, Table: "type", Kind: string(t.Category), Owners: owners, raw: t}
		if t.IsAlias() {
			res, err := idx.ResolveType(name)
			if err != nil {
				return nil, err
			}
			info.Chain = res.Chain
			info.Kind = string(res.Definition.Category)
		}
		infos = append(infos, info)
	}

	if c, ok := idx.LookupCommand(name); ok {
		info := symbolInfo{Name: name, Table: "command", Kind: "command", Owners: owners, raw: c}
		if c.IsAlias() {
			res, err := idx.ResolveCommand(name)
			if err != nil {
				return nil, err
			}
			info.Chain = res.Chain
		}
		infos = append(infos, info)
	}

	if g, ok := idx.LookupEnumGroup(name); ok {
		infos = append(infos, symbolInfo{
			Name:      name,
			Table:     "enums",
			Kind:      string(g.Kind),
			Owners:    owners,
			Additions: len(idx.Additions(name)),
			raw:       g,
		})
	}

	if e, ok := idx.LookupConstant(name); ok {
		info := symbolInfo{Name: name, Table: "constant", Kind: "constant", Owners: owners, raw: e}
		if e.Kind == registry.ValueAlias {
			res, err := idx.ResolveConstant(name)
			if err != nil {
				return nil, err
			}
			info.Chain = res.Chain
		}
		infos = append(infos, info)
	}

	if len(infos) == 0 {
		return nil, errors.WithHint(registry.NotFound(registry.KindType, name),
			"names are case sensitive; enum variants are inspected through their group")
	}
	return infos, nil
}
