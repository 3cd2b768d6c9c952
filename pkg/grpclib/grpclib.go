package grpclib

import (
	"fmt"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
	"runtime/debug"
	"time"
)

// RecoveryHandlerFunc converts panics into Internal errors keeping the stack in the message
func RecoveryHandlerFunc(p interface{}) error {
	fmt.Println("[PANIC]", p)
	fmt.Println(string(debug.Stack()))
	return status.Errorf(codes.Internal, "panic: %v", p)
}

// NewStatus creates status with reason attached as ErrorInfo
func NewStatus(code codes.Code, reason string, msg string) *status.Status {
	st := status.New(code, msg)
	withDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: "offer-reserve",
	})
	if err != nil {
		return st
	}
	return withDetails
}

// NewRetryableStatus creates status telling the caller when to retry
func NewRetryableStatus(code codes.Code, reason string, msg string, retryDelay time.Duration) *status.Status {
	st := NewStatus(code, reason, msg)
	withDetails, err := st.WithDetails(&errdetails.RetryInfo{
		RetryDelay: durationpb.New(retryDelay),
	})
	if err != nil {
		return st
	}
	return withDetails
}

// GetReason returns the reason of the ErrorInfo detail, empty if not found
func GetReason(st *status.Status) string {
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if ok {
			return info.Reason
		}
	}
	return ""
}

// GetRetryDelay returns the retry delay, false if the status is not retryable
func GetRetryDelay(st *status.Status) (time.Duration, bool) {
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.RetryInfo)
		if ok {
			return info.RetryDelay.AsDuration(), true
		}
	}
	return 0, false
}
