// 2 Mar 2026

/*
Acorr computes the autocorrelation of one column of a measurement
file written during a simulation.

Given no input path it reads standard input; given no -o option it
writes to standard output. Comment lines starting with '#' are
skipped.

Usage:

	acorr [flags] [infile]

The flags are:

	-c column
		1-based column to correlate (default 1)
	-t lags
		number of lags to compute (default 100)
	-o outfilename
		output file name, instead of standard output
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/dgront/surpass/pkg/acorr"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[flags] [infile]")
	flag.PrintDefaults()
}

func main() {
	var flags acorr.CmdFlag
	var infile, outfile string

	flag.IntVar(&flags.Column, "c", 1, "column to correlate, counting from 1")
	flag.IntVar(&flags.TMax, "t", 100, "number of lags")
	flag.StringVar(&outfile, "o", "", "output file, instead of standard output")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() > 0 {
		infile = flag.Arg(0)
	}

	if err := acorr.Mymain(&flags, infile, outfile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
