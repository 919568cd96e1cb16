package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmaxmax/crosscc/pkg/toolchain"
)

var flagsCmd = &cobra.Command{
	Use:   "flags ACTION [flags]",
	Short: "Print the command line flags the toolchain uses for an action",
	Long: `Resolve the toolchain from the environment and print the flags its features
contribute to ACTION (e.g. c++-compile, c++-link-executable) for the given
build variables.`,
	Args: cobra.ExactArgs(1),
	RunE: flagsExecution,
}

// flagVariables maps command flags to the build variables they fill.
var flagVariables = []struct {
	flag     string
	short    string
	variable string
	usage    string
}{
	{"copt", "", toolchain.VarUserCompileFlags, "user compile flag"},
	{"linkopt", "", toolchain.VarUserLinkFlags, "user link flag"},
	{"define", "D", toolchain.VarPreprocessorDefines, "preprocessor define"},
	{"include", "", toolchain.VarIncludes, "forced include file"},
	{"iquote", "", toolchain.VarQuoteIncludePaths, "quote include path"},
	{"include-path", "I", toolchain.VarIncludePaths, "include path"},
	{"isystem", "", toolchain.VarSystemIncludePaths, "system include path"},
	{"library-path", "L", toolchain.VarLibrarySearchDirectories, "library search directory"},
	{"linkstamp", "", toolchain.VarLinkstampPaths, "linkstamp object path"},
}

func init() {
	for _, v := range flagVariables {
		flagsCmd.Flags().StringArrayP(v.flag, v.short, nil, v.usage+" (repeatable)")
	}
}

func flagsExecution(cmd *cobra.Command, args []string) error {
	action := toolchain.Action(args[0])
	if !knownAction(action) {
		return fmt.Errorf("unknown action: %s", action)
	}

	vars := make(toolchain.Variables)
	for _, v := range flagVariables {
		values, err := cmd.Flags().GetStringArray(v.flag)
		if err != nil {
			return err
		}
		vars[v.variable] = values
	}

	res, err := resolve(cmd.Context(), toolchain.OSEnv{})
	if err != nil {
		return err
	}

	d, ok := res.(*toolchain.Descriptor)
	if !ok {
		return errors.New("no toolchain requested by the environment: set " + settings.cfg.Env.Triple)
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(d.CommandLine(action, vars), " "))
	return nil
}

func knownAction(action toolchain.Action) bool {
	for _, group := range [][]toolchain.Action{toolchain.CompileActions, toolchain.LinkActions} {
		for _, a := range group {
			if a == action {
				return true
			}
		}
	}
	return false
}
