package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// colorMapFlag collects repeatable "pattern:color" mappings, rejecting
// malformed entries at parse time.
type colorMapFlag []string

var _ pflag.Value = (*colorMapFlag)(nil)

func (f *colorMapFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *colorMapFlag) Set(value string) error {
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, ":") {
			return fmt.Errorf("invalid color mapping %q (expected pattern:color)", entry)
		}
		*f = append(*f, entry)
	}
	return nil
}

func (f *colorMapFlag) Type() string {
	return "pattern:color"
}
