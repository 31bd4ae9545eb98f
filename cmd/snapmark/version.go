package main

import (
	"flag"
	"fmt"
	"strings"
)

type versionCmd struct{ r *root }

func (v *versionCmd) Run() error {
	line := fmt.Sprintf("%s version %s", v.r.program, version)
	if c := strings.TrimSpace(commit); c != "" {
		line += fmt.Sprintf(" (%s)", c)
	}
	if d := strings.TrimSpace(date); d != "" {
		line += fmt.Sprintf(" built %s", d)
	}
	fmt.Println(line)
	return nil
}

func (v *versionCmd) Program() string {
	return v.r.program + " version"
}

func (v *versionCmd) FlagSet() *flag.FlagSet {
	return nil
}
