package rpc

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/reform"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/snapshot"
)

var errBadBody = errors.New("malformed request body")

// #region server
// Server serves ReformService from a reform.Controller.
type Server struct {
	ctrl   *reform.Controller
	logger *slog.Logger
}

var _ ReformServer = (*Server)(nil)

// NewServer creates a server over ctrl. A nil logger discards.
func NewServer(ctrl *reform.Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{ctrl: ctrl, logger: logger}
}

// #endregion server

// #region methods
// Score prices a change without touching the ledger.
func (s *Server) Score(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req reform.Request
	if err := fromStruct(in, &req); err != nil {
		return nil, s.toStatus(MethodScore, errors.Join(errBadBody, err))
	}
	preview, err := s.ctrl.Preview(req)
	if err != nil {
		return nil, s.toStatus(MethodScore, err)
	}
	return s.reply(MethodScore, NewScoreReply(preview))
}

// Attempt prices, gates and applies a change. Rejections are replies, not
// errors.
func (s *Server) Attempt(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req reform.Request
	if err := fromStruct(in, &req); err != nil {
		return nil, s.toStatus(MethodAttempt, errors.Join(errBadBody, err))
	}
	res, err := s.ctrl.Attempt(req)
	if err != nil {
		return nil, s.toStatus(MethodAttempt, err)
	}
	return s.reply(MethodAttempt, NewAttemptReply(res))
}

// Credit adds points to a ledger.
func (s *Server) Credit(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req reform.CreditRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, s.toStatus(MethodCredit, errors.Join(errBadBody, err))
	}
	res, err := s.ctrl.Credit(req)
	if err != nil {
		return nil, s.toStatus(MethodCredit, err)
	}
	return s.reply(MethodCredit, NewCreditReply(res))
}

// GetLedger reads a ledger and its threshold.
func (s *Server) GetLedger(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req LedgerRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, s.toStatus(MethodGetLedger, errors.Join(errBadBody, err))
	}
	view, err := s.ctrl.Ledger(req.ActorID, req.Modifiers)
	if err != nil {
		return nil, s.toStatus(MethodGetLedger, err)
	}
	return s.reply(MethodGetLedger, view)
}

// #endregion methods

// #region helpers
func (s *Server) reply(method string, v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, s.toStatus(method, err)
	}
	return out, nil
}

// toStatus maps controller errors onto gRPC codes.
func (s *Server) toStatus(method string, err error) error {
	var violation *snapshot.ConfigurationInvariantViolation
	switch {
	case errors.Is(err, errBadBody), errors.Is(err, reform.ErrMissingActor):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &violation):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		s.logger.Error("rpc failed", "method", method, "err", err)
		return status.Error(codes.Internal, err.Error())
	}
}

// #endregion helpers
