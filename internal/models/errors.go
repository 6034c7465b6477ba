package models

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound  = status.Errorf(codes.NotFound, "not found")
	ErrForbidden = status.Errorf(codes.PermissionDenied, "forbidden")
	ErrConflict  = status.Errorf(codes.AlreadyExists, "conflict")
)
