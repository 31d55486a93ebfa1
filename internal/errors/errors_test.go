package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "no table for Wald",
			expected: "NOT_FOUND: no table for Wald",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "expression is empty",
			expected: "INVALID_ARGUMENT: expression is empty",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to load conversation")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to load conversation", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeReasonAndMeta() {
	baseErr := errors.NotFound("no table").
		WithReason(errors.ReasonNoTableFound).
		WithMeta(errors.MetaAvailableTiers, "1-4, 5-10")
	wrapped := errors.Wrap(baseErr, "failed to resolve")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.True(errors.HasReason(wrapped, errors.ReasonNoTableFound))
	tiers, ok := errors.GetMetaString(wrapped, errors.MetaAvailableTiers)
	s.True(ok)
	s.Equal("1-4, 5-10", tiers)
	s.Contains(wrapped.Error(), "no table")
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "should be nil"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	wrapped := errors.WrapWithCode(fmt.Errorf("timeout"), errors.CodeUnavailable, "redis unavailable")
	s.Equal(errors.CodeUnavailable, wrapped.Code)
	s.True(errors.IsUnavailable(wrapped))
}

func (s *ErrorsTestSuite) TestErrorIs() {
	s.True(errors.NotFound("a").Is(errors.NotFound("b")))
	s.False(errors.NotFound("a").Is(errors.InvalidArgument("a")))
}

func (s *ErrorsTestSuite) TestGetCode() {
	wrapped := errors.Wrap(errors.NotFound("test"), "wrapped")

	s.Equal(errors.CodeNotFound, errors.GetCode(wrapped))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("standard error")))
	s.Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	wrapped := errors.Wrap(errors.NotFound("inner"), "wrapped message")

	s.Equal("wrapped message", errors.GetMessage(wrapped))
	s.Equal("standard error", errors.GetMessage(fmt.Errorf("standard error")))
}

func (s *ErrorsTestSuite) TestHasReason() {
	s.False(errors.HasReason(fmt.Errorf("plain"), errors.ReasonInvalidExpression))
	s.False(errors.HasReason(errors.InvalidArgument("x"), ""))
	s.True(errors.HasReason(
		errors.InvalidArgument("x").WithReason(errors.ReasonInvalidExpression),
		errors.ReasonInvalidExpression,
	))
}

func (s *ErrorsTestSuite) TestGRPCConversion() {
	err := errors.NotFound("no table for Wald").
		WithReason(errors.ReasonNoTableFound).
		WithMeta(errors.MetaAvailableTiers, "1-4")

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Equal(codes.NotFound, st.Code())
	s.Equal("no table for Wald", st.Message())

	back := errors.FromGRPCError(grpcErr)
	s.Equal(errors.CodeNotFound, errors.GetCode(back))
	s.True(errors.HasReason(back, errors.ReasonNoTableFound))
	tiers, ok := errors.GetMetaString(back, errors.MetaAvailableTiers)
	s.True(ok)
	s.Equal("1-4", tiers)

	plain := errors.FromGRPCError(status.Error(codes.InvalidArgument, "invalid input"))
	s.Equal(errors.CodeInvalidArgument, errors.GetCode(plain))
	s.Equal("invalid input", errors.GetMessage(plain))
}

func (s *ErrorsTestSuite) TestToGRPCErrorPlain() {
	st, ok := status.FromError(errors.ToGRPCError(fmt.Errorf("boom")))
	s.Require().True(ok)
	s.Equal(codes.Internal, st.Code())
	s.Nil(errors.ToGRPCError(nil))
}

func (s *ErrorsTestSuite) TestGRPCCodeMapping() {
	testCases := []struct {
		code     errors.Code
		expected codes.Code
	}{
		{errors.CodeNotFound, codes.NotFound},
		{errors.CodeInvalidArgument, codes.InvalidArgument},
		{errors.CodeFailedPrecondition, codes.FailedPrecondition},
		{errors.CodeAborted, codes.Aborted},
		{errors.CodeInternal, codes.Internal},
		{errors.CodeUnavailable, codes.Unavailable},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, tc.code.GRPCCode())
		})
	}
}
