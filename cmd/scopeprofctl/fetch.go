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

	"github.com/levigross/grequests"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const fetchUserAgent = "scopeprofctl-fetch"

var fetchCmd = &cobra.Command{
	Use:   "fetch <base-url>",
	Short: "Fetch and print the scope summary table from a running serve instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0] + "/api/v1/scopes"
		resp, err := grequests.Get(url, &grequests.RequestOptions{UserAgent: fetchUserAgent})
		if err != nil {
			return errors.Wrapf(err, "GET %s", url)
		}
		defer resp.Close() // nolint: errcheck

		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("GET %s returned status %d: %s", url, resp.StatusCode, resp.String())
		}

		fmt.Println(resp.String())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(fetchCmd)
}
