// Package buildinfo reports the version the binary was built with.
//
// Values are injected at link time, e.g.:
//
//	go build -ldflags "-X github.com/dmitrijs2005/giftswap/internal/buildinfo.buildVersion=v1.0.0" ./cmd/giftswap
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = ""
	buildDate    = ""
	buildCommit  = ""
)

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// PrintBuildData writes version, date and commit to w, one per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", valueOrNA(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", valueOrNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", valueOrNA(buildCommit))
}
