// Command fluorbench measures propagation cost through width*height
// chains of computed cells.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	fluor "github.com/eb2501/fluor-core"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "fluorbench",
		Usage: "benchmark fluor-core cell propagation",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "iterations", Value: 1000},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Int("iterations"))

	tbl := table.NewWriter()
	tbl.SetTitle("fluor-core propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"width x height", "avg", "min", "p75", "p99", "max"})

	for _, w := range []int{1, 10, 100, 1000} {
		for _, h := range []int{1, 10, 100} {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rctx := fluor.NewContext()
			src := fluor.NewSource(rctx, 1)
			leaves := make([]fluor.Readable[int], 0, w)

			for i := 0; i < w; i++ {
				var last fluor.Readable[int] = src
				for j := 0; j < h; j++ {
					prev := last
					last = fluor.NewComputed(rctx, func() (int, error) {
						v, err := prev.Get()
						if err != nil {
							return 0, err
						}
						return v + 1, nil
					})
				}
				// force the chain to materialize once before timing.
				if _, err := last.Get(); err != nil {
					return err
				}
				leaves = append(leaves, last)
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				v, err := src.Get()
				if err != nil {
					return err
				}
				if err := src.Set(v + 1); err != nil {
					return err
				}
				for _, leaf := range leaves {
					if _, err := leaf.Get(); err != nil {
						return err
					}
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("%d x %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	return nil
}
