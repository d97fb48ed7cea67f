package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	jsoniter "github.com/json-iterator/go"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/metrics"
	"portfolio_dashboard/internal/pkg/utils"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	methodGetHealth               = "getHealth"
	methodGetBalance              = "getBalance"
	methodGetTokenAccountsByOwner = "getTokenAccountsByOwner"

	encodingJSONParsed = "jsonParsed"
)

// SolanaClient implements port.SolanaRPCClient over JSON-RPC 2.0.
type SolanaClient struct {
	rpcClient      *rpc.Client
	netDef         entity.NetworkDefinition
	rpcURL         string
	rpcCallTimeout time.Duration
}

// rpcResponseContext wraps results of RPC methods that return {context, value}.
type rpcResponseContext[T any] struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value T `json:"value"`
}

type keyedAccount struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data     json.RawMessage `json:"data"`
		Owner    string          `json:"owner"`
		Lamports uint64          `json:"lamports"`
	} `json:"account"`
}

// parsedAccountData mirrors the jsonParsed encoding of an SPL token account.
type parsedAccountData struct {
	Program string `json:"program"`
	Parsed  *struct {
		Type string `json:"type"`
		Info *struct {
			Mint        string `json:"mint"`
			Owner       string `json:"owner"`
			TokenAmount *struct {
				Amount         string `json:"amount"`
				Decimals       uint8  `json:"decimals"`
				UIAmountString string `json:"uiAmountString"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

// NewSolanaClient connects to the first healthy RPC URL of netDef (primary, then fallbacks).
// httpClient may be nil.
func NewSolanaClient(ctx context.Context, netDef entity.NetworkDefinition, httpClient *http.Client, connectionTimeout time.Duration, rpcCallTimeout time.Duration) (*SolanaClient, error) {
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var opts []rpc.ClientOption
	if httpClient != nil {
		opts = append(opts, rpc.WithHTTPClient(httpClient))
	}

	var lastErr error
	for _, rpcURL := range rpcURLs {
		if rpcURL == "" {
			continue
		}
		dialCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
		c, err := rpc.DialOptions(dialCtx, rpcURL, opts...)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
			continue
		}

		var health string
		err = c.CallContext(dialCtx, &health, methodGetHealth)
		cancel()
		if err != nil {
			c.Close()
			lastErr = fmt.Errorf("RPC %s is not healthy: %w", rpcURL, err)
			continue
		}
		return &SolanaClient{rpcClient: c, netDef: netDef, rpcURL: rpcURL, rpcCallTimeout: rpcCallTimeout}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC URL configured")
	}
	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

func (c *SolanaClient) call(ctx context.Context, result any, method string, args ...any) error {
	if c.rpcCallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.rpcCallTimeout)
		defer cancel()
	}
	if err := c.rpcClient.CallContext(ctx, result, method, args...); err != nil {
		metrics.RPCRequests.WithLabelValues(method, "error").Inc()
		return &entity.RPCError{Method: method, Err: err}
	}
	metrics.RPCRequests.WithLabelValues(method, "ok").Inc()
	return nil
}

// GetBalance fetches the lamport balance of address.
func (c *SolanaClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	var res rpcResponseContext[uint64]
	cfg := map[string]any{"commitment": c.netDef.Commitment}
	if err := c.call(ctx, &res, methodGetBalance, address, cfg); err != nil {
		return 0, err
	}
	return res.Value, nil
}

// GetTokenAccountsByOwner lists owner's token accounts under programID with jsonParsed encoding.
func (c *SolanaClient) GetTokenAccountsByOwner(ctx context.Context, owner string, programID string) ([]entity.TokenAccount, error) {
	var res rpcResponseContext[[]keyedAccount]
	filter := map[string]any{"programId": programID}
	cfg := map[string]any{"encoding": encodingJSONParsed, "commitment": c.netDef.Commitment}
	if err := c.call(ctx, &res, methodGetTokenAccountsByOwner, owner, filter, cfg); err != nil {
		return nil, err
	}

	accounts := make([]entity.TokenAccount, 0, len(res.Value))
	for _, ka := range res.Value {
		accounts = append(accounts, entity.TokenAccount{
			Pubkey:    ka.Pubkey,
			ProgramID: programID,
			Parsed:    parseTokenAccountData(ka.Account.Data),
		})
	}
	return accounts, nil
}

// parseTokenAccountData returns nil when data is not a well-formed jsonParsed token account,
// e.g. the node fell back to ["<base64>", "base64"] encoding.
func parseTokenAccountData(raw json.RawMessage) *entity.ParsedTokenAccount {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var data parsedAccountData
	if err := jsonAPI.Unmarshal(raw, &data); err != nil {
		return nil
	}
	if data.Parsed == nil || data.Parsed.Info == nil || data.Parsed.Info.TokenAmount == nil {
		return nil
	}
	info := data.Parsed.Info
	if info.Mint == "" || !utils.IsBaseUnitAmount(info.TokenAmount.Amount) {
		return nil
	}
	return &entity.ParsedTokenAccount{
		Mint:           info.Mint,
		Owner:          info.Owner,
		Amount:         info.TokenAmount.Amount,
		Decimals:       info.TokenAmount.Decimals,
		UIAmountString: info.TokenAmount.UIAmountString,
	}
}

// Definition returns the network definition for this client.
func (c *SolanaClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// URL returns the RPC endpoint this client is connected to.
func (c *SolanaClient) URL() string {
	return c.rpcURL
}

// Close releases the underlying RPC client.
func (c *SolanaClient) Close() {
	c.rpcClient.Close()
}

var _ port.SolanaRPCClient = (*SolanaClient)(nil)
