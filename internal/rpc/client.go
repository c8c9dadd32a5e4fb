package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/reform"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// #region client-struct
// Client calls a remote ReformService.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewClient connects to a ReformService at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection, which the
// caller keeps ownership of.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Close shuts down the connection if the client owns one.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion constructor

// #region calls
// Score prices a change remotely.
func (c *Client) Score(ctx context.Context, req reform.Request) (ScoreReply, error) {
	var out ScoreReply
	err := c.invoke(ctx, MethodScore, req, &out)
	return out, err
}

// Attempt applies a change remotely.
func (c *Client) Attempt(ctx context.Context, req reform.Request) (AttemptReply, error) {
	var out AttemptReply
	err := c.invoke(ctx, MethodAttempt, req, &out)
	return out, err
}

// Credit adds points remotely.
func (c *Client) Credit(ctx context.Context, req reform.CreditRequest) (CreditReply, error) {
	var out CreditReply
	err := c.invoke(ctx, MethodCredit, req, &out)
	return out, err
}

// Ledger reads a ledger remotely.
func (c *Client) Ledger(ctx context.Context, actorID string, mods weights.Modifiers) (reform.LedgerView, error) {
	var out reform.LedgerView
	err := c.invoke(ctx, MethodGetLedger, LedgerRequest{ActorID: actorID, Modifiers: mods}, &out)
	return out, err
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	req, err := toStruct(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), req, resp); err != nil {
		return fmt.Errorf("%s rpc: %w", method, err)
	}
	return fromStruct(resp, out)
}

// #endregion calls
