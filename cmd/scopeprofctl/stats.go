// Copyright © 2017 yuuki0xff <yuuki0xff@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/manvis/scopeprof/profiler/drawmodel"
	"github.com/manvis/scopeprof/profiler/snapshot"
)

var statsCmd = &cobra.Command{
	Use:   "stats <snapshot-file>",
	Short: "Print a per-scope duration summary table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot.LoadFile(args[0])
		if err != nil {
			return err
		}

		dm := drawmodel.Build(snap)
		if err := dm.Err(); err != nil {
			return errors.Wrap(err, "snapshot failed validation")
		}

		table, _ := dm.ScopeTable()
		printScopeTable(os.Stdout, snap, table)
		return nil
	},
}

func defaultTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetCenterSeparator(" ")
	table.SetRowSeparator("-")
	table.SetColWidth(120)
	return table
}

func printScopeTable(w io.Writer, snap *snapshot.ResultSnapshot, stats []*drawmodel.ScopeStats) {
	table := defaultTable(w)
	table.SetHeader([]string{"Scope", "Calls", "Total (ns)", "Mean (ns)", "Min (ns)", "Max (ns)", "Max Frame"})
	for _, s := range stats {
		name := "?"
		if rec := snap.Scopes[s.Key]; rec != nil {
			name = rec.Name
		}
		table.Append([]string{
			name,
			fmt.Sprint(s.Calls),
			fmt.Sprint(s.TotalNanos),
			fmt.Sprint(s.MeanNanos()),
			fmt.Sprint(s.MinNanos),
			fmt.Sprint(s.MaxNanos),
			fmt.Sprint(s.MaxFrame),
		})
	}
	table.Render()
}

func init() {
	RootCmd.AddCommand(statsCmd)
}
