// Package fetch retrieves deployed contract bytecode over an Ethereum
// JSON-RPC endpoint, for callers (the CLI, the HTTP handler) that analyze
// a live address instead of inline bytecode.
package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/maxgio92/delegatescan"
)

// Options configures a Code call. RPCURL, if set, takes priority over the
// network's environment-derived RPC endpoint.
type Options struct {
	Network string
	RPCURL  string
}

// Code fetches the deployed bytecode at address as a "0x"-prefixed hex
// string, resolving the RPC endpoint per SPEC_FULL.md §6: explicit RPCURL,
// else RPC_URL_<NETWORK_UPPER_SNAKE>, else RPC_URL_DEFAULT.
func Code(ctx context.Context, address string, opts Options) (string, error) {
	url, err := resolveRPCURL(opts)
	if err != nil {
		return "", err
	}

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch: dial %s: %w", url, err)
	}
	defer client.Close()

	code, err := client.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", fmt.Errorf("fetch: CodeAt %s: %w", address, err)
	}
	if len(code) == 0 {
		return "", delegatescan.ErrNoCode
	}

	return "0x" + common.Bytes2Hex(code), nil
}

// resolveRPCURL implements SPEC_FULL.md §6's resolution order.
func resolveRPCURL(opts Options) (string, error) {
	if opts.RPCURL != "" {
		return opts.RPCURL, nil
	}

	if opts.Network != "" {
		envVar := "RPC_URL_" + strings.ToUpper(strings.ReplaceAll(opts.Network, "-", "_"))
		if url := os.Getenv(envVar); url != "" {
			return url, nil
		}
	}

	if url := os.Getenv("RPC_URL_DEFAULT"); url != "" {
		return url, nil
	}

	return "", delegatescan.ErrMissingRPCConfig
}
