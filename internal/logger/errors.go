package logger

import "errors"

var (
	// ErrServiceNameIsEmpty error if the log config serviceName is empty.
	ErrServiceNameIsEmpty = errors.New("log config serviceName can not be empty")

	// ErrAppNameIsEmpty error if the log config appName is empty.
	ErrAppNameIsEmpty = errors.New("log config appName can not be empty")
)
