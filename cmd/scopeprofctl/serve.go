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
	"net/http"

	"github.com/spf13/cobra"

	"github.com/manvis/scopeprof/httpview"
	"github.com/manvis/scopeprof/info"
	"github.com/manvis/scopeprof/profiler/snapshot"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve <snapshot-file>",
	Short: "Serve a snapshot's introspection API over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot.LoadFile(args[0])
		if err != nil {
			return err
		}

		srv := httpview.NewServer()
		srv.Update(snap)

		fmt.Printf("Serving %s on http://%s\n", args[0], serveListen)
		return http.ListenAndServe(serveListen, srv.Router())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", info.DefaultListenAddr, "address to listen on")
	RootCmd.AddCommand(serveCmd)
}
