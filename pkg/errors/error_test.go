package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidPrice, "bar %d has invalid close %.2f", 3, -1.5)
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidPrice, err.Code)
	suite.Equal("bar 3 has invalid close -1.50", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFetchFailed, "failed to fetch klines", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeFetchFailed, err.Code)
	suite.Equal("failed to fetch klines", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeFetchFailed, cause, "failed to fetch bars for symbol: %s", "BTCUSDT")
	suite.NotNil(err)
	suite.Equal(ErrCodeFetchFailed, err.Code)
	suite.Equal("failed to fetch bars for symbol: BTCUSDT", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.Equal("[200] data not found: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeEmptySeries, "bar series is empty")
	suite.Equal(ErrCodeEmptySeries, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeEmptySeries, "bar series is empty")
	wrapped := fmt.Errorf("pipeline failed: %w", cause)
	suite.Equal(ErrCodeEmptySeries, GetCode(wrapped))
}

func (suite *ErrorTestSuite) TestGetCodeUnknown() {
	err := errors.New("plain error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidBalance, "initial balance must be positive")
	suite.True(HasCode(err, ErrCodeInvalidBalance))
	suite.False(HasCode(err, ErrCodeInvalidPrice))
}

func (suite *ErrorTestSuite) TestIsInvalidInput() {
	suite.True(IsInvalidInput(New(ErrCodeEmptySeries, "empty")))
	suite.True(IsInvalidInput(New(ErrCodeInvalidBalance, "balance")))
	suite.False(IsInvalidInput(New(ErrCodeFetchFailed, "fetch")))
	suite.False(IsInvalidInput(errors.New("plain error")))
}

func (suite *ErrorTestSuite) TestIsInvalidInputWrapped() {
	cause := New(ErrCodeInvalidPrice, "bad close")
	wrapped := fmt.Errorf("compute failed: %w", cause)
	suite.True(IsInvalidInput(wrapped))
}

func (suite *ErrorTestSuite) TestIsUpstreamFetch() {
	suite.True(IsUpstreamFetch(New(ErrCodeFetchFailed, "fetch")))
	suite.True(IsUpstreamFetch(New(ErrCodeFetchParse, "parse")))
	suite.False(IsUpstreamFetch(New(ErrCodeEmptySeries, "empty")))
	suite.False(IsUpstreamFetch(errors.New("plain error")))
}

func (suite *ErrorTestSuite) TestIsAndAs() {
	cause := New(ErrCodeQueryFailed, "query failed")
	wrapped := fmt.Errorf("store: %w", cause)

	suite.True(Is(wrapped, cause))

	var target *Error
	suite.True(As(wrapped, &target))
	suite.Equal(ErrCodeQueryFailed, target.Code)
}
