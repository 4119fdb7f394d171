package compiler

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/ctxlog"
	"github.com/specialistvlad/pipeconf/internal/dag"
	"github.com/spf13/afero"
)

// renderer is the Graphviz executable used to turn DOT into PNG.
const renderer = "dot"

var lookPath = exec.LookPath

// DrawGraph returns the scenario graph prepared for rendering: additional
// data nodes are added as isolated nodes and ranked data nodes carry their
// rank in the label. Ranks are read, not computed.
func DrawGraph(s *config.ScenarioConfig) *dag.Graph {
	g := BuildGraph(s)
	for _, dn := range s.AdditionalDataNodes() {
		addNode(g, dn, "ellipse")
	}
	for _, dn := range s.DataNodes() {
		if rank, ok := dn.Rank(s.ID()); ok {
			_ = g.SetAttr(NodeID(dn), AttrLabel, fmt.Sprintf("%s\nrank %d", dn.ID(), rank))
		}
	}
	return g
}

// Draw writes the scenario graph in DOT format next to path, with a .dot
// extension, and returns the path of the file it produced last. When fs is
// the OS file system and Graphviz is installed, it also renders a PNG at
// path. A missing renderer is not an error: the DOT file is kept and a
// notice is logged.
func Draw(ctx context.Context, fs afero.Fs, s *config.ScenarioConfig, path string) (string, error) {
	logger := ctxlog.FromContext(ctxlog.With(ctx, "scenario", s.ID()))

	if path == "" {
		path = s.ID() + ".png"
	}
	dotPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".dot"

	if dir := filepath.Dir(dotPath); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory for '%s': %w", dotPath, err)
		}
	}
	if err := afero.WriteFile(fs, dotPath, []byte(DrawGraph(s).DOT(s.ID())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write graph of scenario '%s': %w", s.ID(), err)
	}

	if _, ok := fs.(*afero.OsFs); !ok {
		logger.Info("Graph written as DOT only; rendering needs the OS file system.", "path", dotPath)
		return dotPath, nil
	}
	bin, err := lookPath(renderer)
	if err != nil {
		logger.Info("Graphviz not found; graph written as DOT only.", "path", dotPath)
		return dotPath, nil
	}

	cmd := exec.CommandContext(ctx, bin, "-Tpng", "-o", path, dotPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return dotPath, fmt.Errorf("failed to render graph of scenario '%s': %w: %s", s.ID(), err, strings.TrimSpace(string(out)))
	}
	logger.Info("The graph image of the scenario configuration is exported.", "path", path)
	return path, nil
}
