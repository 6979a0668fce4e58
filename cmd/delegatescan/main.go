// Command delegatescan analyzes EVM bytecode for DELEGATECALL-based proxy
// patterns, either from inline hex or from a live contract address.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxgio92/delegatescan"
	"github.com/maxgio92/delegatescan/internal/fetch"
	"github.com/maxgio92/delegatescan/internal/obslog"
	"github.com/maxgio92/delegatescan/internal/printer"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		bytecodeFlag string
		addressFlag  string
		networkFlag  string
		rpcURLFlag   string
		jsonOutput   bool
		linearMode   bool
	)

	rootCmd := &cobra.Command{
		Use:   "delegatescan",
		Short: "Analyze EVM bytecode for DELEGATECALL proxy patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bytecodeFlag == "" && addressFlag == "" {
				return fmt.Errorf("one of --bytecode or --address is required")
			}

			log := obslog.Base()

			bytecode := bytecodeFlag
			if bytecode == "" {
				var err error
				bytecode, err = fetch.Code(context.Background(), addressFlag, fetch.Options{
					Network: networkFlag,
					RPCURL:  rpcURLFlag,
				})
				if err != nil {
					return fmt.Errorf("Analysis failed: %w", err)
				}
			}

			var opts []delegatescan.Option
			if addressFlag != "" {
				opts = append(opts, delegatescan.WithContractAddress(addressFlag))
			}
			if networkFlag != "" {
				opts = append(opts, delegatescan.WithNetwork(networkFlag))
			}
			if linearMode {
				opts = append(opts, delegatescan.WithLinearMode())
			}

			report, err := delegatescan.Analyze(bytecode, opts...)
			if err != nil {
				if errors.Is(err, delegatescan.ErrMalformedBytecode) {
					return err
				}
				log.Errorf("analyze: %v", err)
				return fmt.Errorf("Analysis failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			printer.Fprint(cmd.OutOrStdout(), report)
			return nil
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&bytecodeFlag, "bytecode", "", "hex-encoded bytecode to analyze")
	rootCmd.Flags().StringVar(&addressFlag, "address", "", "deployed contract address to fetch and analyze")
	rootCmd.Flags().StringVar(&networkFlag, "network", "mainnet", "network name, used to resolve an RPC endpoint for --address")
	rootCmd.Flags().StringVar(&rpcURLFlag, "rpc-url", "", "RPC endpoint to use, overrides network-derived resolution")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the report as JSON instead of a human-readable summary")
	rootCmd.Flags().BoolVar(&linearMode, "linear", false, "disable CFG-based tracing in favor of a single linear pass")

	return rootCmd
}
