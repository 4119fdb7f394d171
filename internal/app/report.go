package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/pipeconf/internal/compiler"
	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/xlab/treeprint"
)

// RenderReport draws the applied scenarios with their tasks and ranked data
// nodes, followed by the checker issues.
func RenderReport(r *config.Registry, res *Result) string {
	tree := treeprint.NewWithRoot("pipeconf")

	scenarios := tree.AddBranch("scenarios")
	for _, s := range r.Scenarios() {
		if s.IsDefault() {
			continue
		}
		meta := string(s.Frequency())
		if meta == "" {
			meta = "-"
		}
		branch := scenarios.AddMetaBranch(meta, s.ID())
		for _, t := range s.Tasks() {
			task := branch.AddMetaBranch("task", t.ID())
			task.AddNode("in: " + joinIDs(t.Inputs()))
			task.AddNode("out: " + joinIDs(t.Outputs()))
		}
		nodes := branch.AddBranch("data nodes")
		for _, dn := range s.DataNodes() {
			rank := "unranked"
			if n, ok := dn.Rank(s.ID()); ok {
				rank = fmt.Sprintf("rank %d", n)
			}
			nodes.AddMetaNode(rank, fmt.Sprintf("%s (%s)", dn.ID(), dn.StorageType()))
		}
	}

	issues := res.Issues
	list := tree.AddBranch(fmt.Sprintf("issues: %d errors, %d warnings, %d infos",
		len(issues.Errors()), len(issues.Warnings()), len(issues.Infos())))
	for _, issue := range issues.All() {
		list.AddMetaNode(issue.Severity.String(), issue.Error())
	}
	return tree.String()
}

// RenderRanks draws the rank table of every scenario, data nodes ordered
// by rank then id.
func RenderRanks(ranks compiler.Ranks) string {
	tree := treeprint.NewWithRoot("ranks")

	ids := make([]string, 0, len(ranks))
	for id := range ranks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		branch := tree.AddBranch(id)
		table := ranks[id]
		dns := make([]string, 0, len(table))
		for dn := range table {
			dns = append(dns, dn)
		}
		sort.Slice(dns, func(i, j int) bool {
			if table[dns[i]] != table[dns[j]] {
				return table[dns[i]] < table[dns[j]]
			}
			return dns[i] < dns[j]
		})
		for _, dn := range dns {
			branch.AddMetaNode(table[dn], dn)
		}
	}
	return tree.String()
}

func joinIDs(dns []*config.DataNodeConfig) string {
	if len(dns) == 0 {
		return "-"
	}
	ids := make([]string, len(dns))
	for i, dn := range dns {
		ids[i] = dn.ID()
	}
	return strings.Join(ids, ", ")
}
