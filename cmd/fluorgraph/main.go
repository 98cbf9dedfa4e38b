// Command fluorgraph builds a small demonstration graph and renders
// its cache/caller/callee topology with tablewriter and go-humanize.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	fluor "github.com/eb2501/fluor-core"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:   "fluorgraph",
		Usage:  "render a demonstration fluor-core dependency graph",
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	built := time.Now()
	rctx := fluor.NewContext()

	n := fluor.NewSource(rctx, 0)
	t := fluor.NewComputed(rctx, func() (int, error) {
		v, err := n.Get()
		if err != nil {
			return 0, err
		}
		return (v+2)+3 + (v+2)*2, nil
	})

	if _, err := t.Get(); err != nil {
		return err
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"cell", "cached", "value", "callees", "callers", "age"})

	report := func(label string, node fluor.GraphNode, get func() (int, error)) {
		v, _ := get()
		callees, _ := node.Callees()
		callers, _ := node.Callers()
		tbl.Append([]string{
			label,
			fmt.Sprintf("%v", node.IsCached()),
			humanize.Comma(int64(v)),
			humanize.Comma(int64(len(callees))),
			humanize.Comma(int64(len(callers))),
			humanize.Time(built),
		})
	}

	report("n (source)", n.(fluor.GraphNode), n.Get)
	report("t (computed)", t.(fluor.GraphNode), t.Get)

	squares := fluor.NewParameterizedMap(rctx, func(k int) (int, error) {
		return k * k, nil
	})
	for _, k := range []int{3, 4, 5} {
		cell := squares.Apply(k)
		if _, err := cell.Get(); err != nil {
			return err
		}
		report(fmt.Sprintf("squares[%s]", squares.Fingerprint(k)), cell.(fluor.GraphNode), cell.Get)
	}

	tbl.Render()
	return nil
}
