// Copyright © Michael Smith <mikesmiffy128@gmail.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted, provided that the above
// copyright notice and this permission notice appear in all copies.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/sstools/sst/internal/featscan"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "Serve a read-only MCP view of a scanned feature tree",
	Long: `inspect scans a feature directory the same way "sstgen scan"
does, then serves the result over MCP on stdio so an editor or agent can
ask what features, cvars, commands and events a tree declares without
re-deriving it from source by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "features"
		if len(args) == 1 {
			dir = args[0]
		}
		return runInspect(cmd.Context(), dir)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(ctx context.Context, dir string) error {
	log.SetOutput(os.Stderr)

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "sstgen-inspect",
		Version: "1.0.0",
	}, nil)

	state := &inspectState{dir: dir}

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_features",
		Description: "List every feature declared under the scanned directory, with its dependencies and tags.",
	}, state.listFeatures)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_cvars",
		Description: "List every console variable declared under the scanned directory.",
	}, state.listCvars)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_events",
		Description: "List every custom event and its registered handlers.",
	}, state.listEvents)

	log.Printf("sstgen inspect: serving scan of %s over stdio", dir)
	return srv.Run(ctx, mcp.NewStdioTransport())
}

// inspectState reloads the scan on every call rather than caching it, so
// edits made to feature source between tool calls are reflected without
// a separate reload command.
type inspectState struct {
	dir string
}

func (s *inspectState) rescan() (*featscan.Result, error) {
	pkgDirs, err := featurePackageDirs(s.dir)
	if err != nil {
		return nil, err
	}
	var sites []featscan.CallSite
	lifecycles := make(map[string]featscan.Lifecycle)
	for _, pd := range pkgDirs {
		pkg := lastPathElem(pd)
		entries, err := os.ReadDir(pd)
		if err != nil {
			return nil, err
		}
		var lc featscan.Lifecycle
		for _, e := range entries {
			if e.IsDir() || !hasGoSuffix(e.Name()) {
				continue
			}
			full := pd + "/" + e.Name()
			src, err := os.ReadFile(full)
			if err != nil {
				return nil, err
			}
			fileSites, fileLC, err := featscan.ScanFile(pkg, full, src)
			if err != nil {
				return nil, err
			}
			sites = append(sites, fileSites...)
			lc.HasPreInit = lc.HasPreInit || fileLC.HasPreInit
			lc.HasInit = lc.HasInit || fileLC.HasInit
			lc.HasEnd = lc.HasEnd || fileLC.HasEnd
		}
		lifecycles[pkg] = lc
	}
	return featscan.Build(sites, lifecycles)
}

type emptyArgs struct{}

func (s *inspectState) listFeatures(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, any, error) {
	res, err := s.rescan()
	if err != nil {
		return nil, nil, err
	}
	var text string
	for _, f := range res.Features {
		text += fmt.Sprintf("%s — %s\n  package: %s\n  require: %v\n  request: %v\n  gamedata: %v\n",
			f.Name, f.Desc, f.Package, f.Require, f.Request, f.RequiredGD)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, nil, nil
}

func (s *inspectState) listCvars(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, any, error) {
	res, err := s.rescan()
	if err != nil {
		return nil, nil, err
	}
	var text string
	for _, c := range res.Cvars {
		text += fmt.Sprintf("%s = %s (feature %s): %s\n", c.Name, c.Default, c.Feature, c.Help)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, nil, nil
}

func (s *inspectState) listEvents(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, any, error) {
	res, err := s.rescan()
	if err != nil {
		return nil, nil, err
	}
	byName := map[string][]string{}
	for _, h := range res.Handlers {
		byName[h.EventName] = append(byName[h.EventName], h.Feature+"."+h.FuncExpr)
	}
	var text string
	for _, e := range res.Events {
		kind := "event"
		if e.Predicate {
			kind = "predicate"
		}
		text += fmt.Sprintf("%s (%s, defined by %s): handlers %v\n", e.Name, kind, e.DefiningFeature, byName[e.Name])
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, nil, nil
}

func lastPathElem(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[i+1:]
		}
	}
	return p
}

func hasGoSuffix(name string) bool {
	return len(name) > 3 && name[len(name)-3:] == ".go" &&
		!(len(name) > 8 && name[len(name)-8:] == "_test.go")
}
